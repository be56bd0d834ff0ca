// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"path"
	"strings"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

// fileHasUserNamespace checks if the filename has a user namespace.
func fileHasUserNamespace(filename string) bool {
	return strings.HasPrefix(filename, types.UserPrefix)
}

// validateFilename rejects absolute filenames and parent traversal before any
// I/O happens. The user: prefix is allowed and checked on the remainder.
func validateFilename(filename string) error {
	name := strings.TrimPrefix(filename, types.UserPrefix)
	if name == "" {
		return &types.InvalidArgumentError{Message: "artifact filename is empty"}
	}
	if path.IsAbs(name) || strings.HasPrefix(name, "/") {
		return &types.InvalidArgumentError{Message: fmt.Sprintf("artifact filename must be relative: %q", filename)}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return &types.InvalidArgumentError{Message: fmt.Sprintf("artifact filename must not traverse parent directories: %q", filename)}
		}
	}
	return nil
}

// partMIMEType returns the media type carried by the part: the inline blob's
// type, the file reference's type, or text/plain for bare text.
func partMIMEType(part *genai.Part) string {
	switch {
	case part == nil:
		return ""
	case part.InlineData != nil:
		return part.InlineData.MIMEType
	case part.FileData != nil:
		return part.FileData.MIMEType
	case part.Text != "":
		return "text/plain"
	}
	return ""
}
