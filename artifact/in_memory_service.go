// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

// entry is one stored artifact version with its metadata.
type entry struct {
	part *genai.Part
	meta *types.ArtifactVersion
}

// InMemoryService represents an in-memory implementation of the artifact service.
type InMemoryService struct {
	artifacts map[string][]entry
	mu        sync.Mutex
}

var _ types.ArtifactService = (*InMemoryService)(nil)

// NewInMemoryService creates a new instance of [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		artifacts: make(map[string][]entry),
	}
}

// artifactPath constructs the artifact path.
func (a *InMemoryService) artifactPath(appName, userID, sessionID, filename string) string {
	if fileHasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, filename)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, sessionID, filename)
}

// SaveArtifact implements [types.ArtifactService].
func (a *InMemoryService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	if err := validateFilename(filename); err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	version := len(a.artifacts[path])

	scope := sessionID
	if fileHasUserNamespace(filename) {
		scope = ""
	}
	a.artifacts[path] = append(a.artifacts[path], entry{
		part: artifact,
		meta: &types.ArtifactVersion{
			Version:      version,
			CanonicalURI: BuildURI(appName, userID, scope, filename, version),
			MIMEType:     partMIMEType(artifact),
			CreateTime:   time.Now(),
		},
	})

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *InMemoryService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*genai.Part, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions, ok := a.artifacts[path]
	if !ok || len(versions) == 0 {
		return nil, nil
	}

	n := len(versions) - 1
	if version != nil {
		n = *version
	}
	if n < 0 || n >= len(versions) {
		return nil, nil
	}

	return versions[n].part, nil
}

// ListArtifactKeys implements [types.ArtifactService].
func (a *InMemoryService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sessionPrefix := fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID)
	userNamespacePrefix := fmt.Sprintf("%s/%s/user/", appName, userID)

	filenames := []string{}
	for path := range a.artifacts {
		switch {
		case strings.HasPrefix(path, sessionPrefix):
			filenames = append(filenames, strings.TrimPrefix(path, sessionPrefix))

		case strings.HasPrefix(path, userNamespacePrefix):
			filenames = append(filenames, strings.TrimPrefix(path, userNamespacePrefix))
		}
	}
	slices.Sort(filenames)

	return slices.Compact(filenames), nil
}

// DeleteArtifact implements [types.ArtifactService].
func (a *InMemoryService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.artifacts, a.artifactPath(appName, userID, sessionID, filename))

	return nil
}

// ListVersions implements [types.ArtifactService].
func (a *InMemoryService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions, ok := a.artifacts[path]
	if !ok {
		return nil, nil
	}

	verList := make([]int, len(versions))
	for i := range versions {
		verList[i] = i
	}

	return verList, nil
}

// ListArtifactVersions implements [types.ArtifactService].
func (a *InMemoryService) ListArtifactVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]*types.ArtifactVersion, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions := a.artifacts[path]

	metas := make([]*types.ArtifactVersion, len(versions))
	for i, e := range versions {
		metas[i] = e.meta
	}

	return metas, nil
}

// GetArtifactVersion implements [types.ArtifactService].
func (a *InMemoryService) GetArtifactVersion(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*types.ArtifactVersion, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions := a.artifacts[path]
	if len(versions) == 0 {
		return nil, nil
	}

	n := len(versions) - 1
	if version != nil {
		n = *version
	}
	if n < 0 || n >= len(versions) {
		return nil, nil
	}

	return versions[n].meta, nil
}

// Close implements [types.ArtifactService].
func (a *InMemoryService) Close() error {
	return nil
}
