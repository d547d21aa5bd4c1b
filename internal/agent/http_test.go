package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/common/errors"
	"research-assistant/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func newTestAgent(t *testing.T, baseURL string, maxRetries int) *HTTPAgent {
	t.Helper()
	return NewHTTPAgent(&Config{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	}, logger.NewTestLogger(t))
}

func agentEnvelope(answer string, tools ...string) map[string]interface{} {
	usage := make([]map[string]string, 0, len(tools))
	for _, tool := range tools {
		usage = append(usage, map[string]string{"tool": tool})
	}
	return map[string]interface{}{
		"answer":    answer,
		"toolUsage": usage,
	}
}

// ==========================
// Success Path
// ==========================

func TestHTTPAgent_Execute(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(agentEnvelope("Lambda runs code without servers.", "aws___search_documentation"))
	}))
	defer server.Close()

	a := newTestAgent(t, server.URL, 2)
	resp, err := a.Execute(context.Background(), "Analyze this AWS question: What is Lambda?")
	require.NoError(t, err)

	assert.Equal(t, "/api/agent/research", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Analyze this AWS question: What is Lambda?", gotBody["prompt"])

	assert.Equal(t, "Lambda runs code without servers.", resp.Answer)
	require.Len(t, resp.ToolUsage, 1)
	assert.Equal(t, "aws___search_documentation", resp.ToolUsage[0].Tool)
}

func TestHTTPAgent_ExecuteWithoutToolUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer": "plain answer"}`))
	}))
	defer server.Close()

	a := newTestAgent(t, server.URL, 0)
	resp, err := a.Execute(context.Background(), "question")
	require.NoError(t, err)

	assert.Equal(t, "plain answer", resp.Answer)
	assert.Empty(t, resp.ToolUsage)
}

// ==========================
// Retry Behavior
// ==========================

func TestHTTPAgent_RetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(agentEnvelope("recovered"))
	}))
	defer server.Close()

	a := newTestAgent(t, server.URL, 2)
	resp, err := a.Execute(context.Background(), "question")
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "recovered", resp.Answer)
}

func TestHTTPAgent_ExhaustedRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := newTestAgent(t, server.URL, 1)
	resp, err := a.Execute(context.Background(), "question")

	require.Error(t, err)
	assert.Nil(t, resp)
	// First attempt plus one retry.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, errors.ErrCodeAgentExecutionFailed, errors.CodeOf(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestHTTPAgent_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	a := newTestAgent(t, server.URL, 0)
	resp, err := a.Execute(context.Background(), "question")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, errors.ErrCodeAgentExecutionFailed, errors.CodeOf(err))
}

// ==========================
// Envelope Validation
// ==========================

func TestHTTPAgent_InvalidEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "MissingAnswer", body: `{"toolUsage": []}`},
		{name: "EmptyAnswer", body: `{"answer": ""}`},
		{name: "AnswerWrongType", body: `{"answer": 42}`},
		{name: "ToolUsageWrongShape", body: `{"answer": "ok", "toolUsage": [{"name": "x"}]}`},
		{name: "NotAnObject", body: `["answer"]`},
		{name: "NotJSON", body: `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			a := newTestAgent(t, server.URL, 0)
			resp, err := a.Execute(context.Background(), "question")

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, errors.ErrCodeAgentResponseInvalid, errors.CodeOf(err))
			assert.False(t, errors.IsRetryable(err))
		})
	}
}

// ==========================
// Cancellation
// ==========================

func TestHTTPAgent_ContextCancelled(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client goes away; otherwise this handler
		// blocks forever and Close deadlocks.
		io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	a := newTestAgent(t, server.URL, 2)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	resp, err := a.Execute(ctx, "question")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, errors.ErrCodeAgentTimeout, errors.CodeOf(err))
}
