// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/auth/httptransport"
	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"

	"github.com/go-a2a/agentcore/types"
)

var engineNameRe = regexp.MustCompile(`^projects/([^/]+)/locations/([^/]+)/reasoningEngines/(\d+)$`)

// AgentEngineService is a [types.SessionService] backed by a hosted Vertex AI
// Agent Engine. Sessions live under the engine resource
// projects/{project}/locations/{location}/reasoningEngines/{id}.
type AgentEngineService struct {
	httpClient *http.Client
	baseURL    string
	engineName string
	logger     *slog.Logger
}

var _ types.SessionService = (*AgentEngineService)(nil)

// AgentEngineServiceOption configures the [AgentEngineService].
type AgentEngineServiceOption func(*AgentEngineService)

// WithEngineHTTPClient overrides the authenticated HTTP client, mainly for tests.
func WithEngineHTTPClient(client *http.Client) AgentEngineServiceOption {
	return func(s *AgentEngineService) {
		s.httpClient = client
	}
}

// WithEngineBaseURL overrides the API endpoint, mainly for tests.
func WithEngineBaseURL(baseURL string) AgentEngineServiceOption {
	return func(s *AgentEngineService) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewAgentEngineService creates a service for the given engine. engineID is
// either the full resource name or a bare numeric id combined with project
// and location.
func NewAgentEngineService(ctx context.Context, project, location, engineID string, opts ...AgentEngineServiceOption) (*AgentEngineService, error) {
	engineName := engineID
	if !strings.Contains(engineID, "/") {
		if project == "" || location == "" {
			return nil, fmt.Errorf("bare engine id %q requires project and location", engineID)
		}
		engineName = fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", project, location, engineID)
	}
	m := engineNameRe.FindStringSubmatch(engineName)
	if m == nil {
		return nil, fmt.Errorf("invalid agent engine resource name: %q", engineName)
	}

	s := &AgentEngineService{
		baseURL:    fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1beta1", m[2]),
		engineName: engineName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{"https://www.googleapis.com/auth/cloud-platform"},
		})
		if err != nil {
			return nil, fmt.Errorf("get credentials for agent engine: %w", err)
		}
		client, err := httptransport.NewClient(&httptransport.Options{
			Credentials: creds,
		})
		if err != nil {
			return nil, fmt.Errorf("create agent engine http client: %w", err)
		}
		s.httpClient = client
	}

	return s, nil
}

// wire representations of the Agent Engine session API.

type engineSession struct {
	Name         string         `json:"name,omitempty"`
	UserID       string         `json:"userId,omitempty"`
	SessionState map[string]any `json:"sessionState,omitempty"`
	UpdateTime   time.Time      `json:"updateTime,omitzero"`
}

type engineEvent struct {
	Name          string         `json:"name,omitempty"`
	InvocationID  string         `json:"invocationId,omitempty"`
	Author        string         `json:"author,omitempty"`
	Timestamp     time.Time      `json:"timestamp,omitzero"`
	Content       map[string]any `json:"content,omitempty"`
	Actions       map[string]any `json:"actions,omitempty"`
	ErrorCode     string         `json:"errorCode,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	EventMetadata map[string]any `json:"eventMetadata,omitempty"`
}

type listSessionsPage struct {
	Sessions      []engineSession `json:"sessions"`
	NextPageToken string          `json:"nextPageToken"`
}

type listEventsPage struct {
	SessionEvents []engineEvent `json:"sessionEvents"`
	NextPageToken string        `json:"nextPageToken"`
}

type engineOperation struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

func (s *AgentEngineService) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := sonic.ConfigFastest.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &types.UpstreamUnavailableError{Upstream: "agent engine", Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &types.ResourceNotFoundError{Resource: "agent engine resource", Message: url}
	case resp.StatusCode >= 400:
		return fmt.Errorf("agent engine %s %s: status %d: %s", method, url, resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := sonic.ConfigFastest.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// CreateSession implements [types.SessionService].
//
// The hosted service mints the session id; a user-supplied id is rejected.
func (s *AgentEngineService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (types.Session, error) {
	if sessionID != "" {
		return nil, &types.InvalidArgumentError{
			Message: "user-provided session id is not supported by the agent engine session service",
		}
	}

	var op engineOperation
	if err := s.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/sessions", s.baseURL, s.engineName),
		&engineSession{UserID: userID, SessionState: state}, &op); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Operation names look like .../sessions/{id}/operations/{op}.
	parts := strings.Split(op.Name, "/operations/")
	sessionName := parts[0]
	idx := strings.LastIndex(sessionName, "/sessions/")
	if idx < 0 {
		return nil, fmt.Errorf("unexpected operation name %q", op.Name)
	}
	newSessionID := sessionName[idx+len("/sessions/"):]

	if err := s.waitOperation(ctx, op); err != nil {
		return nil, err
	}

	return s.GetSession(ctx, appName, userID, newSessionID, nil)
}

func (s *AgentEngineService) waitOperation(ctx context.Context, op engineOperation) error {
	for !op.Done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
		if err := s.doJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%s", s.baseURL, op.Name), nil, &op); err != nil {
			return fmt.Errorf("poll operation: %w", err)
		}
	}
	return nil
}

func (s *AgentEngineService) sessionName(sessionID string) string {
	return fmt.Sprintf("%s/sessions/%s", s.engineName, sessionID)
}

// GetSession implements [types.SessionService].
//
// The session resource and its event stream are fetched concurrently, and the
// full stream is kept: events written after the session's update_time are NOT
// filtered out, since clock skew across writers must not drop events.
func (s *AgentEngineService) GetSession(ctx context.Context, appName, userID, sessionID string, config *types.GetSessionConfig) (types.Session, error) {
	var (
		res    engineSession
		events []*types.Event
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.doJSON(egCtx, http.MethodGet, fmt.Sprintf("%s/%s", s.baseURL, s.sessionName(sessionID)), nil, &res)
	})
	eg.Go(func() error {
		var err error
		events, err = s.listEngineEvents(egCtx, sessionID)
		return err
	})
	if err := eg.Wait(); err != nil {
		var nf *types.ResourceNotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}

	if res.UserID != userID {
		return nil, nil
	}

	if config != nil {
		if !config.AfterTimestamp.IsZero() {
			filtered := events[:0]
			for _, ev := range events {
				if ev.Timestamp.After(config.AfterTimestamp) {
					filtered = append(filtered, ev)
				}
			}
			events = filtered
		}
		if config.NumRecentEvents > 0 && len(events) > config.NumRecentEvents {
			events = events[len(events)-config.NumRecentEvents:]
		}
	}

	ses := NewSession(appName, userID, sessionID, res.SessionState, res.UpdateTime)
	ses.AddEvent(events...)
	return ses, nil
}

func (s *AgentEngineService) listEngineEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	var events []*types.Event
	pageToken := ""
	for {
		url := fmt.Sprintf("%s/%s/events", s.baseURL, s.sessionName(sessionID))
		if pageToken != "" {
			url += "?pageToken=" + pageToken
		}
		var page listEventsPage
		if err := s.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		for _, ee := range page.SessionEvents {
			ev, err := fromEngineEvent(ee)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

func fromEngineEvent(ee engineEvent) (*types.Event, error) {
	content, err := types.DecodeContent(ee.Content)
	if err != nil {
		return nil, fmt.Errorf("decode event content: %w", err)
	}

	id := ee.Name
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}

	ev := &types.Event{
		LLMResponse: &types.LLMResponse{
			Content:        content,
			ErrorCode:      ee.ErrorCode,
			ErrorMessage:   ee.ErrorMessage,
			CustomMetadata: ee.EventMetadata,
		},
		ID:           id,
		InvocationID: ee.InvocationID,
		Author:       ee.Author,
		Timestamp:    ee.Timestamp,
	}
	if len(ee.Actions) > 0 {
		b, err := sonic.ConfigFastest.Marshal(ee.Actions)
		if err != nil {
			return nil, err
		}
		actions := types.NewEventActions()
		if err := sonic.ConfigFastest.Unmarshal(b, actions); err != nil {
			return nil, err
		}
		ev.Actions = actions
	}
	return ev, nil
}

func toEngineEvent(event *types.Event) (*engineEvent, error) {
	var content map[string]any
	if event.LLMResponse != nil {
		var err error
		content, err = types.EncodeContent(event.Content)
		if err != nil {
			return nil, err
		}
	}

	ee := &engineEvent{
		InvocationID: event.InvocationID,
		Author:       event.Author,
		Timestamp:    event.Timestamp,
		Content:      content,
	}
	if event.LLMResponse != nil {
		ee.ErrorCode = event.ErrorCode
		ee.ErrorMessage = event.ErrorMessage
		ee.EventMetadata = event.CustomMetadata
	}
	if event.Actions != nil {
		b, err := sonic.ConfigFastest.Marshal(event.Actions)
		if err != nil {
			return nil, err
		}
		var actions map[string]any
		if err := sonic.ConfigFastest.Unmarshal(b, &actions); err != nil {
			return nil, err
		}
		ee.Actions = actions
	}
	return ee, nil
}

// ListSessions implements [types.SessionService].
func (s *AgentEngineService) ListSessions(ctx context.Context, appName, userID string) ([]types.Session, error) {
	sessions := []types.Session{}
	pageToken := ""
	for {
		url := fmt.Sprintf(`%s/%s/sessions?filter=user_id="%s"`, s.baseURL, s.engineName, userID)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}
		var page listSessionsPage
		if err := s.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		for _, res := range page.Sessions {
			id := res.Name
			if idx := strings.LastIndex(id, "/"); idx >= 0 {
				id = id[idx+1:]
			}
			sessions = append(sessions, NewSession(appName, res.UserID, id, nil, res.UpdateTime))
		}
		if page.NextPageToken == "" {
			return sessions, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteSession implements [types.SessionService].
func (s *AgentEngineService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	err := s.doJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", s.baseURL, s.sessionName(sessionID)), nil, nil)
	var nf *types.ResourceNotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

// AppendEvent implements [types.SessionService]. App and user scoped state
// writes are not supported by the hosted service and are logged and dropped.
func (s *AgentEngineService) AppendEvent(ctx context.Context, ses types.Session, event *types.Event) (*types.Event, error) {
	if event.IsPartial() {
		return event, nil
	}

	if event.Actions != nil {
		for key := range event.Actions.StateDelta {
			if strings.HasPrefix(key, types.AppPrefix) || strings.HasPrefix(key, types.UserPrefix) {
				s.logger.WarnContext(ctx, "App and user state writes are not supported by the agent engine session service",
					slog.String("key", key))
			}
		}
	}

	ee, err := toEngineEvent(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	if err := s.doJSON(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s:appendEvent", s.baseURL, s.sessionName(ses.ID())), ee, nil); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	ses.AddEvent(event)
	ses.SetLastUpdateTime(event.Timestamp)

	return event, nil
}

// ListEvents implements [types.SessionService].
func (s *AgentEngineService) ListEvents(ctx context.Context, appName, userID, sessionID string, maxEvents int, since *time.Time) (*types.ListEventsResponse, error) {
	events, err := s.listEngineEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if since != nil {
		filtered := events[:0]
		for _, ev := range events {
			if ev.Timestamp.After(*since) {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}
	if maxEvents > 0 && len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}
	return &types.ListEventsResponse{Events: events}, nil
}

// Close implements [types.SessionService].
func (s *AgentEngineService) Close() error {
	return nil
}
