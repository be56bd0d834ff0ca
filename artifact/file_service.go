// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
)

const metadataFilename = "metadata.json"

// fileMetadata is the sidecar record written next to each version payload.
type fileMetadata struct {
	FileName       string         `json:"fileName"`
	MIMEType       string         `json:"mimeType,omitempty"`
	FileURI        string         `json:"fileUri,omitempty"`
	Version        int            `json:"version"`
	CanonicalURI   string         `json:"canonicalUri"`
	CustomMetadata map[string]any `json:"customMetadata,omitempty"`
	CreateTime     time.Time      `json:"createTime,omitzero"`
}

// FileService stores artifacts beneath a root directory.
//
// Layout:
//
//	root/users/{user_id}/sessions/{session_id}/artifacts/{artifact_path}/versions/{n}/{basename}
//	root/users/{user_id}/artifacts/{artifact_path}/versions/{n}/{basename}
//
// The artifact path is derived from the caller-supplied filename: separators
// create nested directories, and each version directory carries a sidecar
// metadata.json.
type FileService struct {
	rootDir string
	logger  *slog.Logger
}

var _ types.ArtifactService = (*FileService)(nil)

// FileServiceOption configures a [FileService].
type FileServiceOption func(*FileService)

// WithFileLogger sets the logger for the file artifact service.
func WithFileLogger(logger *slog.Logger) FileServiceOption {
	return func(f *FileService) {
		f.logger = logger
	}
}

// NewFileService creates a file-backed artifact service rooted at rootDir.
// The directory is created when it does not exist.
func NewFileService(rootDir string, opts ...FileServiceOption) (*FileService, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}

	f := &FileService{
		rootDir: abs,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *FileService) baseRoot(userID string) string {
	return filepath.Join(f.rootDir, "users", userID)
}

// scopeRoot returns the directory that defines the storage scope. An empty
// session id or a user: filename selects the user scope.
func (f *FileService) scopeRoot(userID, sessionID, filename string) string {
	base := f.baseRoot(userID)
	if sessionID == "" || fileHasUserNamespace(filename) {
		return filepath.Join(base, "artifacts")
	}
	return filepath.Join(base, "sessions", sessionID, "artifacts")
}

func (f *FileService) artifactDir(userID, sessionID, filename string) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	name := strings.TrimPrefix(filename, types.UserPrefix)
	return filepath.Join(f.scopeRoot(userID, sessionID, filename), filepath.FromSlash(name)), nil
}

func versionsDir(artifactDir string) string {
	return filepath.Join(artifactDir, "versions")
}

// listVersionsOnDisk returns sorted versions found under the artifact
// directory. Non-numeric children are skipped.
func listVersionsOnDisk(artifactDir string) []int {
	entries, err := os.ReadDir(versionsDir(artifactDir))
	if err != nil {
		return nil
	}

	versions := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		versions = append(versions, n)
	}
	slices.Sort(versions)

	return versions
}

func readMetadata(path string) *fileMetadata {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var meta fileMetadata
	if err := sonic.ConfigFastest.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}

// SaveArtifact implements [types.ArtifactService].
func (f *FileService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return 0, err
	}

	versions := listVersionsOnDisk(dir)
	next := 0
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}
	versionDir := filepath.Join(versionsDir(dir), strconv.Itoa(next))
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return 0, fmt.Errorf("create version directory: %w", err)
	}

	contentPath := filepath.Join(versionDir, filepath.Base(dir))
	meta := fileMetadata{
		FileName:   filename,
		Version:    next,
		CreateTime: time.Now(),
	}

	switch {
	case artifact != nil && artifact.InlineData != nil:
		if err := os.WriteFile(contentPath, artifact.InlineData.Data, 0o644); err != nil {
			return 0, fmt.Errorf("write artifact payload: %w", err)
		}
		meta.MIMEType = artifact.InlineData.MIMEType
		if meta.MIMEType == "" {
			meta.MIMEType = "application/octet-stream"
		}

	case artifact != nil && artifact.FileData != nil:
		meta.FileURI = artifact.FileData.FileURI
		meta.MIMEType = artifact.FileData.MIMEType

	case artifact != nil && artifact.Text != "":
		if err := os.WriteFile(contentPath, []byte(artifact.Text), 0o644); err != nil {
			return 0, fmt.Errorf("write artifact payload: %w", err)
		}

	default:
		return 0, &types.InvalidArgumentError{Message: "artifact part must carry inline data, text, or a file reference"}
	}

	scope := sessionID
	if fileHasUserNamespace(filename) {
		scope = ""
	}
	meta.CanonicalURI = BuildURI(appName, userID, scope, filename, next)

	encoded, err := sonic.ConfigFastest.Marshal(&meta)
	if err != nil {
		return 0, fmt.Errorf("encode artifact metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(versionDir, metadataFilename), encoded, 0o644); err != nil {
		return 0, fmt.Errorf("write artifact metadata: %w", err)
	}

	f.logger.DebugContext(ctx, "saved artifact",
		slog.String("filename", filename),
		slog.Int("version", next),
		slog.String("path", versionDir),
	)

	return next, nil
}

// LoadArtifact implements [types.ArtifactService].
func (f *FileService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*genai.Part, error) {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return nil, err
	}

	versions := listVersionsOnDisk(dir)
	if len(versions) == 0 {
		return nil, nil
	}
	n := versions[len(versions)-1]
	if version != nil {
		if !slices.Contains(versions, *version) {
			return nil, nil
		}
		n = *version
	}

	versionDir := filepath.Join(versionsDir(dir), strconv.Itoa(n))
	meta := readMetadata(filepath.Join(versionDir, metadataFilename))
	contentPath := filepath.Join(versionDir, filepath.Base(dir))

	if meta != nil && meta.FileURI != "" {
		return genai.NewPartFromURI(meta.FileURI, meta.MIMEType), nil
	}

	data, err := os.ReadFile(contentPath)
	if err != nil {
		f.logger.WarnContext(ctx, "artifact payload missing",
			slog.String("filename", filename),
			slog.String("path", contentPath),
		)
		return nil, nil
	}

	if meta != nil && meta.MIMEType != "" {
		return genai.NewPartFromBytes(data, meta.MIMEType), nil
	}

	return genai.NewPartFromText(string(data)), nil
}

// iterArtifactDirs returns the artifact directories beneath root, identified
// by a versions child directory. The walk does not descend into them.
func iterArtifactDirs(root string) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if info, statErr := os.Stat(versionsDir(path)); statErr == nil && info.IsDir() {
			dirs = append(dirs, path)
			return fs.SkipDir
		}
		return nil
	})
	return dirs
}

// ListArtifactKeys implements [types.ArtifactService].
func (f *FileService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	base := f.baseRoot(userID)
	seen := make(map[string]struct{})

	if sessionID != "" {
		sessionRoot := filepath.Join(base, "sessions", sessionID, "artifacts")
		for _, dir := range iterArtifactDirs(sessionRoot) {
			if meta := f.latestMetadata(dir); meta != nil && meta.FileName != "" {
				seen[meta.FileName] = struct{}{}
				continue
			}
			if rel, err := filepath.Rel(sessionRoot, dir); err == nil {
				seen[filepath.ToSlash(rel)] = struct{}{}
			}
		}
	}

	userRoot := filepath.Join(base, "artifacts")
	for _, dir := range iterArtifactDirs(userRoot) {
		if meta := f.latestMetadata(dir); meta != nil && meta.FileName != "" {
			seen[meta.FileName] = struct{}{}
			continue
		}
		if rel, err := filepath.Rel(userRoot, dir); err == nil {
			seen[types.UserPrefix+filepath.ToSlash(rel)] = struct{}{}
		}
	}

	filenames := make([]string, 0, len(seen))
	for name := range seen {
		filenames = append(filenames, name)
	}
	slices.Sort(filenames)

	return filenames, nil
}

func (f *FileService) latestMetadata(artifactDir string) *fileMetadata {
	versions := listVersionsOnDisk(artifactDir)
	if len(versions) == 0 {
		return nil
	}
	last := versions[len(versions)-1]
	return readMetadata(filepath.Join(versionsDir(artifactDir), strconv.Itoa(last), metadataFilename))
}

// DeleteArtifact implements [types.ArtifactService].
func (f *FileService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

// ListVersions implements [types.ArtifactService].
func (f *FileService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return nil, err
	}
	return listVersionsOnDisk(dir), nil
}

// ListArtifactVersions implements [types.ArtifactService].
func (f *FileService) ListArtifactVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]*types.ArtifactVersion, error) {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return nil, err
	}

	versions := listVersionsOnDisk(dir)
	metas := make([]*types.ArtifactVersion, 0, len(versions))
	for _, n := range versions {
		metas = append(metas, f.buildArtifactVersion(appName, userID, sessionID, filename, dir, n))
	}

	return metas, nil
}

// GetArtifactVersion implements [types.ArtifactService].
func (f *FileService) GetArtifactVersion(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*types.ArtifactVersion, error) {
	dir, err := f.artifactDir(userID, sessionID, filename)
	if err != nil {
		return nil, err
	}

	versions := listVersionsOnDisk(dir)
	if len(versions) == 0 {
		return nil, nil
	}
	n := versions[len(versions)-1]
	if version != nil {
		if !slices.Contains(versions, *version) {
			return nil, nil
		}
		n = *version
	}

	return f.buildArtifactVersion(appName, userID, sessionID, filename, dir, n), nil
}

func (f *FileService) buildArtifactVersion(appName, userID, sessionID, filename, artifactDir string, version int) *types.ArtifactVersion {
	meta := readMetadata(filepath.Join(versionsDir(artifactDir), strconv.Itoa(version), metadataFilename))

	av := &types.ArtifactVersion{Version: version}
	if meta != nil {
		av.CanonicalURI = meta.CanonicalURI
		av.MIMEType = meta.MIMEType
		av.CustomMetadata = meta.CustomMetadata
		av.CreateTime = meta.CreateTime
	}
	if av.CanonicalURI == "" {
		scope := sessionID
		if fileHasUserNamespace(filename) {
			scope = ""
		}
		av.CanonicalURI = BuildURI(appName, userID, scope, filename, version)
	}

	return av
}

// Close implements [types.ArtifactService].
func (f *FileService) Close() error {
	return nil
}
