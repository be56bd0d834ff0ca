// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/runner"
	"github.com/go-a2a/agentcore/types"
)

// defaultUserID is used when the request does not identify a user.
const defaultUserID = "user"

// Server serves one runner over HTTP.
type Server struct {
	config         *Config
	runner         *runner.Runner
	sessionService types.SessionService
	logger         *slog.Logger

	httpServer *http.Server
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for the given runner. The session service must
// be the one the runner was built with.
func NewServer(cfg *Config, r *runner.Runner, sessionService types.SessionService, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, &types.InvalidArgumentError{Message: "config is required"}
	}
	if r == nil {
		return nil, &types.InvalidArgumentError{Message: "runner is required"}
	}
	if sessionService == nil {
		return nil, &types.InvalidArgumentError{Message: "session service is required"}
	}

	s := &Server{
		config:         cfg,
		runner:         r,
		sessionService: sessionService,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/v1/agents/send-message", s.handleSendMessage)
	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", slog.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type sendMessageRequest struct {
	ThreadID string            `json:"threadId"`
	RunID    string            `json:"runId"`
	UserID   string            `json:"userId"`
	Messages []incomingMessage `json:"messages"`
}

type incomingMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    types.ErrorKind `json:"kind"`
	Message string          `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(types.HTTPStatusOf(err))
	body, marshalErr := sonic.ConfigFastest.Marshal(&errorResponse{
		Error: errorBody{Kind: types.KindOf(err), Message: err.Error()},
	})
	if marshalErr != nil {
		return
	}
	w.Write(body)
}

// handleSendMessage runs one invocation for a thread and streams its events.
//
// The thread id doubles as the session id; an unknown thread creates a fresh
// session. The response is SSE unless the client asks for application/json.
func (s *Server) handleSendMessage(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body sendMessageRequest
	if err := sonic.ConfigFastest.NewDecoder(req.Body).Decode(&body); err != nil {
		s.writeError(w, &types.InvalidArgumentError{Message: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if body.ThreadID == "" {
		s.writeError(w, &types.InvalidArgumentError{Message: "threadId is required"})
		return
	}
	if len(body.Messages) == 0 {
		s.writeError(w, &types.InvalidArgumentError{Message: "messages must not be empty"})
		return
	}
	userID := body.UserID
	if userID == "" {
		userID = defaultUserID
	}

	if err := s.ensureSession(ctx, userID, body.ThreadID); err != nil {
		s.writeError(w, err)
		return
	}

	last := body.Messages[len(body.Messages)-1]
	runReq := &runner.RunRequest{
		UserID:     userID,
		SessionID:  body.ThreadID,
		NewMessage: genai.NewContentFromText(last.Content, genai.Role(roleOrUser(last.Role))),
	}

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		s.respondJSON(ctx, w, runReq)
		return
	}
	s.respondSSE(ctx, w, runReq)
}

func roleOrUser(role string) string {
	if role == "" {
		return string(genai.RoleUser)
	}
	return role
}

func (s *Server) ensureSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.sessionService.GetSession(ctx, s.runner.AppName(), userID, sessionID, nil)
	if err != nil {
		return err
	}
	if session != nil {
		return nil
	}
	_, err = s.sessionService.CreateSession(ctx, s.runner.AppName(), userID, sessionID, nil)
	return err
}

// respondSSE streams events as data frames. A failure of any kind, including
// prose-embedded errors detected in model output, emits one terminal RunError
// frame and closes the stream.
func (s *Server) respondSSE(ctx context.Context, w http.ResponseWriter, runReq *runner.RunRequest) {
	sse, err := newSSEWriter(w)
	if err != nil {
		s.writeError(w, &types.InternalError{Message: err.Error()})
		return
	}

	for event, err := range s.runner.RunAsync(ctx, runReq) {
		if err != nil {
			s.logger.ErrorContext(ctx, "invocation failed",
				slog.String("session_id", runReq.SessionID),
				slog.Any("error", err),
			)
			sse.writeEvent(runErrorFrom(err))
			return
		}
		if ce := detectEventError(event); ce != nil {
			sse.writeEvent(newRunError(ce.Code, ce.Message))
			return
		}
		if writeErr := sse.writeEvent(event); writeErr != nil {
			// The client went away; stop consuming the stream.
			s.logger.DebugContext(ctx, "sse write failed", slog.Any("error", writeErr))
			return
		}
	}
}

// respondJSON drains the invocation and returns the events as one array.
func (s *Server) respondJSON(ctx context.Context, w http.ResponseWriter, runReq *runner.RunRequest) {
	var events []*types.Event
	for event, err := range s.runner.RunAsync(ctx, runReq) {
		if err != nil {
			s.logger.ErrorContext(ctx, "invocation failed",
				slog.String("session_id", runReq.SessionID),
				slog.Any("error", err),
			)
			s.writeError(w, err)
			return
		}
		events = append(events, event)
	}

	body, err := sonic.ConfigFastest.Marshal(events)
	if err != nil {
		s.writeError(w, &types.InternalError{Message: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// detectEventError runs the content-level error detector over the event's
// final text. Partial chunks are skipped so a transient "Error:" fragment in
// a streaming delta does not kill the stream.
func detectEventError(event *types.Event) *ContentError {
	if event == nil || event.LLMResponse == nil || event.Content == nil || event.IsPartial() {
		return nil
	}
	return DetectContentError(event.GetText())
}
