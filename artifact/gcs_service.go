// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
	"github.com/go-a2a/agentcore/types/py"
)

// GCSService represents an artifact service implementation using Google Cloud Storage (GCS).
type GCSService struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ types.ArtifactService = (*GCSService)(nil)

// NewGCSService creates a new [GCSService] instance with the given bucket name.
func NewGCSService(ctx context.Context, bucketName string) (*GCSService, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			storage.ScopeFullControl,
			storage.ScopeReadWrite,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials for storage: %w", err)
	}

	client, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	bucket := client.Bucket(bucketName)

	return &GCSService{
		client: client,
		bucket: bucket,
	}, nil
}

// blobPrefix constructs the blob name prefix shared by all versions of an artifact.
func (a *GCSService) blobPrefix(appName, userID, sessionID, filename string) string {
	if fileHasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, filename)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, sessionID, filename)
}

// blobName constructs the blob name for one version.
func (a *GCSService) blobName(appName, userID, sessionID, filename string, version int) string {
	return fmt.Sprintf("%s/%d", a.blobPrefix(appName, userID, sessionID, filename), version)
}

// SaveArtifact implements [types.ArtifactService].
func (a *GCSService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	if err := validateFilename(filename); err != nil {
		return 0, err
	}

	var data []byte
	contentType := ""
	switch {
	case artifact != nil && artifact.InlineData != nil:
		data = artifact.InlineData.Data
		contentType = artifact.InlineData.MIMEType

	case artifact != nil && artifact.Text != "":
		data = []byte(artifact.Text)
		contentType = "text/plain"

	default:
		return 0, &types.InvalidArgumentError{Message: "artifact part must carry inline data or text"}
	}

	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return 0, err
	}
	version := 0
	if len(versions) > 0 {
		version = versions[len(versions)-1] + 1
	}

	blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, version))

	w := blob.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *GCSService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*genai.Part, error) {
	n := 0
	if version == nil {
		versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, nil
		}
		n = versions[len(versions)-1]
	} else {
		n = *version
	}

	blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, n))

	r, err := blob.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer r.Close()

	attrs, err := blob.Attrs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if attrs.ContentType == "text/plain" {
		return genai.NewPartFromText(string(data)), nil
	}

	return genai.NewPartFromBytes(data, attrs.ContentType), nil
}

// ListArtifactKeys implements [types.ArtifactService].
func (a *GCSService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	filenames := py.NewSet[string]()

	eg, ctx := errgroup.WithContext(ctx)

	sessionFilename := py.NewSet[string]()
	eg.Go(func() error {
		sessionPrefix := fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID)
		sessionBlobsIt := a.bucket.Objects(ctx, &storage.Query{
			Prefix: sessionPrefix,
		})
		for {
			objAttrs, err := sessionBlobsIt.Next()
			if err != nil {
				if errors.Is(err, iterator.Done) {
					break
				}
				return err
			}

			if pairs := strings.Split(objAttrs.Name, "/"); len(pairs) == 5 {
				sessionFilename.Insert(pairs[3])
			}
		}
		return nil
	})

	userNamespaceFilename := py.NewSet[string]()
	eg.Go(func() error {
		userNamespacePrefix := fmt.Sprintf("%s/%s/user/", appName, userID)
		userNamespaceBlobs := a.bucket.Objects(ctx, &storage.Query{
			Prefix: userNamespacePrefix,
		})
		for {
			objAttrs, err := userNamespaceBlobs.Next()
			if err != nil {
				if errors.Is(err, iterator.Done) {
					break
				}
				return err
			}

			if pairs := strings.Split(objAttrs.Name, "/"); len(pairs) == 5 {
				userNamespaceFilename.Insert(pairs[3])
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	filenames.Insert(sessionFilename.UnsortedList()...)
	filenames.Insert(userNamespaceFilename.UnsortedList()...)

	return py.List(filenames), nil
}

// DeleteArtifact implements [types.ArtifactService].
func (a *GCSService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return err
	}

	for _, version := range versions {
		blob := a.bucket.Object(a.blobName(appName, userID, sessionID, filename, version))
		if err := blob.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return err
		}
	}

	return nil
}

// ListVersions implements [types.ArtifactService].
func (a *GCSService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	it := a.bucket.Objects(ctx, &storage.Query{
		Prefix: a.blobPrefix(appName, userID, sessionID, filename) + "/",
	})

	versions := []int{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		idx := strings.LastIndex(objAttrs.Name, "/")
		version, err := strconv.Atoi(objAttrs.Name[idx+1:])
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)

	return versions, nil
}

// ListArtifactVersions implements [types.ArtifactService].
func (a *GCSService) ListArtifactVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]*types.ArtifactVersion, error) {
	it := a.bucket.Objects(ctx, &storage.Query{
		Prefix: a.blobPrefix(appName, userID, sessionID, filename) + "/",
	})

	scope := sessionID
	if fileHasUserNamespace(filename) {
		scope = ""
	}

	metas := []*types.ArtifactVersion{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		idx := strings.LastIndex(objAttrs.Name, "/")
		version, err := strconv.Atoi(objAttrs.Name[idx+1:])
		if err != nil {
			continue
		}

		metas = append(metas, &types.ArtifactVersion{
			Version:      version,
			CanonicalURI: BuildURI(appName, userID, scope, filename, version),
			MIMEType:     objAttrs.ContentType,
			CreateTime:   objAttrs.Created,
		})
	}
	slices.SortFunc(metas, func(a, b *types.ArtifactVersion) int { return a.Version - b.Version })

	return metas, nil
}

// GetArtifactVersion implements [types.ArtifactService].
func (a *GCSService) GetArtifactVersion(ctx context.Context, appName, userID, sessionID, filename string, version *int) (*types.ArtifactVersion, error) {
	metas, err := a.ListArtifactVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}

	if version == nil {
		return metas[len(metas)-1], nil
	}
	for _, meta := range metas {
		if meta.Version == *version {
			return meta, nil
		}
	}

	return nil, nil
}

// Close implements [types.ArtifactService].
func (a *GCSService) Close() error {
	return a.client.Close()
}
