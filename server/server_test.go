// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server_test

import (
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/agentcore/runner"
	"github.com/go-a2a/agentcore/server"
	"github.com/go-a2a/agentcore/session"
	"github.com/go-a2a/agentcore/types"
)

// echoAgent answers every turn with a fixed text event.
type echoAgent struct {
	reply string
}

var _ types.Agent = (*echoAgent)(nil)

func (a *echoAgent) Name() string                      { return "echo" }
func (a *echoAgent) Description() string               { return "fixed reply agent" }
func (a *echoAgent) ParentAgent() types.Agent          { return nil }
func (a *echoAgent) SetParentAgent(types.Agent)        {}
func (a *echoAgent) SubAgents() []types.Agent          { return nil }
func (a *echoAgent) RootAgent() types.Agent            { return a }
func (a *echoAgent) FindAgent(string) types.Agent      { return nil }
func (a *echoAgent) FindSubAgent(string) types.Agent   { return nil }
func (a *echoAgent) AsLLMAgent() (types.LLMAgent, bool) { return nil, false }

func (a *echoAgent) Run(ctx context.Context, ictx *types.InvocationContext) iter.Seq2[*types.Event, error] {
	return func(yield func(*types.Event, error) bool) {
		yield(types.NewEvent().
			WithInvocationID(ictx.InvocationID).
			WithAuthor("echo").
			WithContent(genai.NewContentFromText(a.reply, genai.RoleModel)), nil)
	}
}

func (a *echoAgent) RunLive(ctx context.Context, ictx *types.InvocationContext) iter.Seq2[*types.Event, error] {
	return a.Run(ctx, ictx)
}

func newTestServer(t *testing.T, reply string) *server.Server {
	t.Helper()

	svc := session.NewInMemoryService()
	r, err := runner.NewRunner("demo", &echoAgent{reply: reply}, svc)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := server.NewServer(&server.Config{Addr: ":0", AgentsDir: "."}, r, svc)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func postSendMessage(t *testing.T, srv *server.Server, body string, accept string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/agents/send-message", strings.NewReader(body))
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// dataFrames extracts the payload of every SSE data frame in the body.
func dataFrames(body string) []string {
	var frames []string
	for _, line := range strings.Split(body, "\n") {
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			frames = append(frames, payload)
		}
	}
	return frames
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, "ok")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}

func TestSendMessageSSE(t *testing.T) {
	srv := newTestServer(t, "All good.")

	rec := postSendMessage(t, srv,
		`{"threadId":"t1","messages":[{"role":"user","content":"hello"}]}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	frames := dataFrames(rec.Body.String())
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1: %q", len(frames), rec.Body.String())
	}
	var event types.Event
	if err := sonic.Unmarshal([]byte(frames[0]), &event); err != nil {
		t.Fatal(err)
	}
	if got := event.GetText(); got != "All good." {
		t.Errorf("event text = %q, want %q", got, "All good.")
	}
}

func TestSendMessageSSEContentError(t *testing.T) {
	srv := newTestServer(t, "Error code: 401 - Invalid API key")

	rec := postSendMessage(t, srv,
		`{"threadId":"t1","messages":[{"role":"user","content":"hello"}]}`, "")

	frames := dataFrames(rec.Body.String())
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1 terminal error frame: %q", len(frames), rec.Body.String())
	}

	var runErr struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := sonic.Unmarshal([]byte(frames[0]), &runErr); err != nil {
		t.Fatal(err)
	}
	if runErr.Type != "RUN_ERROR" {
		t.Errorf("type = %q, want RUN_ERROR", runErr.Type)
	}
	if runErr.Code != "INVALID_API_KEY" {
		t.Errorf("code = %q, want INVALID_API_KEY", runErr.Code)
	}
	if !strings.Contains(runErr.Message, "Invalid API key") {
		t.Errorf("message = %q, want the detected text", runErr.Message)
	}
}

func TestSendMessageJSON(t *testing.T) {
	srv := newTestServer(t, "All good.")

	rec := postSendMessage(t, srv,
		`{"threadId":"t1","messages":[{"role":"user","content":"hello"}]}`, "application/json")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var events []*types.Event
	if err := sonic.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if got := events[0].GetText(); got != "All good." {
		t.Errorf("event text = %q, want %q", got, "All good.")
	}
}

func TestSendMessageValidation(t *testing.T) {
	srv := newTestServer(t, "ok")

	tests := []struct {
		name string
		body string
	}{
		{"missing thread id", `{"messages":[{"role":"user","content":"hi"}]}`},
		{"empty messages", `{"threadId":"t1","messages":[]}`},
		{"invalid json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSendMessage(t, srv, tt.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSendMessageReusesThreadSession(t *testing.T) {
	srv := newTestServer(t, "ok")

	for range 2 {
		rec := postSendMessage(t, srv,
			`{"threadId":"t1","messages":[{"role":"user","content":"hi"}]}`, "application/json")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
}
