// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"github.com/bytedance/sonic"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/types"
	"github.com/go-a2a/agentcore/types/py"
)

// transcriptLine is one event in the JSONL transcript staged for import.
type transcriptLine struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp,omitzero"`
	Text      string    `json:"text"`
}

// VertexAIRagService implements [types.MemoryService] with Google Cloud Vertex AI RAG.
//
// Session transcripts are staged as JSONL objects in a GCS bucket and imported
// into the configured RAG corpus; searches retrieve matching contexts and
// decode them back into memory entries.
type VertexAIRagService struct {
	ragClient               *aiplatform.VertexRagClient
	ragDataClient           *aiplatform.VertexRagDataClient
	storageClient           *storage.Client
	stagingBucket           string
	ragCorpus               string
	similarityTopK          int
	vectorDistanceThreshold float64
	logger                  *slog.Logger
}

var _ types.MemoryService = (*VertexAIRagService)(nil)

// VertexAIRagOption is a functional option for configuring [VertexAIRagService].
type VertexAIRagOption func(*VertexAIRagService)

// WithVertexAIRagLogger sets the logger for the [VertexAIRagService].
func WithVertexAIRagLogger(logger *slog.Logger) VertexAIRagOption {
	return func(s *VertexAIRagService) {
		s.logger = logger
	}
}

// WithSimilarityTopK sets the number of top results to return for the [VertexAIRagService].
func WithSimilarityTopK(topK int) VertexAIRagOption {
	return func(s *VertexAIRagService) {
		s.similarityTopK = topK
	}
}

// WithVectorDistanceThreshold sets the threshold for vector similarity for the [VertexAIRagService].
func WithVectorDistanceThreshold(threshold float64) VertexAIRagOption {
	return func(s *VertexAIRagService) {
		s.vectorDistanceThreshold = threshold
	}
}

// NewVertexAIRagService creates a new VertexAIRagService.
//
// ragCorpus is the full corpus resource name
// (projects/{p}/locations/{l}/ragCorpora/{id}); stagingBucket is the GCS
// bucket used to stage transcripts before import.
func NewVertexAIRagService(ctx context.Context, ragCorpus, stagingBucket string, opts ...VertexAIRagOption) (*VertexAIRagService, error) {
	if !strings.Contains(ragCorpus, "/ragCorpora/") {
		return nil, &types.InvalidArgumentError{Message: fmt.Sprintf("malformed rag corpus resource name: %q", ragCorpus)}
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			"https://www.googleapis.com/auth/cloud-platform",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}

	ragClient, err := aiplatform.NewVertexRagClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create rag client: %w", err)
	}

	ragDataClient, err := aiplatform.NewVertexRagDataClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create rag data client: %w", err)
	}

	storageClient, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	s := &VertexAIRagService{
		ragClient:               ragClient,
		ragDataClient:           ragDataClient,
		storageClient:           storageClient,
		stagingBucket:           stagingBucket,
		ragCorpus:               ragCorpus,
		similarityTopK:          5,
		vectorDistanceThreshold: 0.7,
		logger:                  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// transcriptObjectName places one object per session so that re-adding a
// session replaces its previous transcript.
func (s *VertexAIRagService) transcriptObjectName(appName, userID, sessionID string) string {
	return fmt.Sprintf("rag-staging/%s/%s/%s.jsonl", appName, userID, sessionID)
}

// AddSessionToMemory implements [types.MemoryService].
func (s *VertexAIRagService) AddSessionToMemory(ctx context.Context, session types.Session) error {
	lines := make([]string, 0, len(session.Events()))
	for _, event := range session.Events() {
		if event.Content == nil || len(event.Content.Parts) == 0 {
			continue
		}
		textParts := make([]string, 0, len(event.Content.Parts))
		for _, part := range event.Content.Parts {
			if part.Text != "" {
				textParts = append(textParts, strings.ReplaceAll(part.Text, "\n", " "))
			}
		}
		if len(textParts) == 0 {
			continue
		}

		data, err := sonic.ConfigFastest.Marshal(&transcriptLine{
			Author:    event.Author,
			Timestamp: event.Timestamp,
			Text:      strings.Join(textParts, ". "),
		})
		if err != nil {
			return fmt.Errorf("encode transcript line: %w", err)
		}
		lines = append(lines, string(data))
	}
	if len(lines) == 0 {
		return nil
	}

	objectName := s.transcriptObjectName(session.AppName(), session.UserID(), session.ID())
	w := s.storageClient.Bucket(s.stagingBucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/jsonl"
	if _, err := w.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		w.Close()
		return fmt.Errorf("stage transcript: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("stage transcript: %w", err)
	}

	s.logger.InfoContext(ctx, "importing session transcript into rag corpus",
		slog.String("app_name", session.AppName()),
		slog.String("user_id", session.UserID()),
		slog.String("session_id", session.ID()),
		slog.String("rag_corpus", s.ragCorpus),
	)

	op, err := s.ragDataClient.ImportRagFiles(ctx, &aiplatformpb.ImportRagFilesRequest{
		Parent: s.ragCorpus,
		ImportRagFilesConfig: &aiplatformpb.ImportRagFilesConfig{
			ImportSource: &aiplatformpb.ImportRagFilesConfig_GcsSource{
				GcsSource: &aiplatformpb.GcsSource{
					Uris: []string{fmt.Sprintf("gs://%s/%s", s.stagingBucket, objectName)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("import rag files: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rag import: %w", err)
	}

	return nil
}

// SearchMemory implements [types.MemoryService].
func (s *VertexAIRagService) SearchMemory(ctx context.Context, appName, userID, query string) (*types.SearchMemoryResponse, error) {
	parent, _, ok := strings.Cut(s.ragCorpus, "/ragCorpora/")
	if !ok {
		return nil, &types.InvalidArgumentError{Message: fmt.Sprintf("malformed rag corpus resource name: %q", s.ragCorpus)}
	}

	resp, err := s.ragClient.RetrieveContexts(ctx, &aiplatformpb.RetrieveContextsRequest{
		Parent: parent,
		DataSource: &aiplatformpb.RetrieveContextsRequest_VertexRagStore_{
			VertexRagStore: &aiplatformpb.RetrieveContextsRequest_VertexRagStore{
				RagResources: []*aiplatformpb.RetrieveContextsRequest_VertexRagStore_RagResource{
					{
						RagCorpus: s.ragCorpus,
					},
				},
				VectorDistanceThreshold: genai.Ptr(s.vectorDistanceThreshold),
			},
		},
		Query: &aiplatformpb.RagQuery{
			Query: &aiplatformpb.RagQuery_Text{
				Text: query,
			},
			SimilarityTopK: int32(s.similarityTopK),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve contexts: %w", err)
	}

	seen := py.NewSet[string]()
	response := &types.SearchMemoryResponse{
		Memories: make([]*types.MemoryEntry, 0),
	}
	for _, rctx := range resp.GetContexts().GetContexts() {
		for entry := range decodeTranscript(rctx.GetText()) {
			key := fmt.Sprintf("%s/%d/%s", entry.Author, entry.Timestamp.UnixNano(), textOf(entry.Content))
			if seen.Has(key) {
				continue
			}
			seen.Insert(key)
			response.Memories = append(response.Memories, entry)
		}
	}
	slices.SortFunc(response.Memories, func(a, b *types.MemoryEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return response, nil
}

// decodeTranscript yields memory entries from a retrieved chunk. Lines that
// decode as transcript JSON keep their author and timestamp; anything else is
// yielded verbatim as a single entry.
func decodeTranscript(text string) func(yield func(*types.MemoryEntry) bool) {
	return func(yield func(*types.MemoryEntry) bool) {
		for line := range strings.Lines(text) {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var tl transcriptLine
			if err := sonic.ConfigFastest.Unmarshal([]byte(line), &tl); err != nil || tl.Text == "" {
				if !yield(&types.MemoryEntry{Content: genai.NewContentFromText(line, genai.RoleModel)}) {
					return
				}
				continue
			}
			if !yield(&types.MemoryEntry{
				Content:   genai.NewContentFromText(tl.Text, genai.RoleModel),
				Author:    tl.Author,
				Timestamp: tl.Timestamp,
			}) {
				return
			}
		}
	}
}

func textOf(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Close implements [types.MemoryService].
func (s *VertexAIRagService) Close() error {
	return errors.Join(
		s.ragClient.Close(),
		s.ragDataClient.Close(),
		s.storageClient.Close(),
	)
}
