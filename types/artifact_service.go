// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// ArtifactVersion describes one stored version of an artifact.
type ArtifactVersion struct {
	// Version is the 0-based contiguous version number.
	Version int `json:"version"`

	// CanonicalURI is the canonical reference for this version, in the
	// artifact:// grammar for logical references or a storage-native URI for
	// file and blob backends.
	CanonicalURI string `json:"canonicalUri,omitempty"`

	// MIMEType is the media type of the payload, if known.
	MIMEType string `json:"mimeType,omitempty"`

	// CustomMetadata is optional caller-supplied metadata stored alongside
	// the payload.
	CustomMetadata map[string]any `json:"customMetadata,omitempty"`

	// CreateTime is when the version was written.
	CreateTime time.Time `json:"createTime,omitzero"`
}

// ArtifactService stores versioned, named payloads scoped to a session or,
// with the "user:" filename prefix, to a user.
//
// Versions are contiguous non-negative integers starting at 0 and are never
// overwritten once written.
type ArtifactService interface {
	// SaveArtifact saves an artifact and returns the assigned version: 0 for
	// the first write of a filename, previous+1 thereafter.
	//
	// The part carries either inline bytes with a mime type, inline text
	// (mime defaults to text/plain), or an artifact:// reference.
	SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error)

	// LoadArtifact loads an artifact version. A nil version loads the latest.
	// A missing artifact returns nil rather than an error.
	LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*genai.Part, error)

	// ListArtifactKeys lists the artifact filenames visible within a session:
	// the session-scoped names plus the user-scoped names carrying their
	// "user:" prefix, sorted and de-duplicated.
	ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error)

	// DeleteArtifact deletes all versions of an artifact.
	DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error

	// ListVersions lists all version numbers of an artifact in ascending order.
	ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error)

	// ListArtifactVersions lists the version metadata of an artifact in
	// ascending version order.
	ListArtifactVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]*ArtifactVersion, error)

	// GetArtifactVersion returns the metadata of one artifact version, or nil
	// when the version does not exist. A nil version selects the latest.
	GetArtifactVersion(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*ArtifactVersion, error)

	// Close closes the artifact service connection.
	Close() error
}
