package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/common/logger"
	"research-assistant/internal/models"
	"research-assistant/internal/research/classifier"
	"research-assistant/internal/research/orchestrator"
	"research-assistant/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Pipeline Mock
// ==========================

type mockPipeline struct {
	calls      int
	sessionIDs []string
	result     *orchestrator.Result
	err        error
}

func (m *mockPipeline) Answer(ctx context.Context, question, sessionID string) (*orchestrator.Result, error) {
	m.calls++
	m.sessionIDs = append(m.sessionIDs, sessionID)
	return m.result, m.err
}

func passingResult(answer string) *orchestrator.Result {
	return &orchestrator.Result{
		Answer:         answer,
		Classification: classifier.Classify("What's the difference between Lambda and ECS?"),
		FollowUp:       models.FollowUpDecision{Reasoning: []string{"No session id provided"}},
		Report:         models.QualityReport{Score: 0.9, Passed: true, CitationCount: 5},
		Attempts:       1,
		ContextStored:  true,
	}
}

func newTestRouter(t *testing.T, pipeline Pipeline, store session.Store) *gin.Engine {
	t.Helper()
	h := NewResearchHandler(pipeline, store, logger.NewTestLogger(t))
	return NewRouter(h, nil)
}

func postResearch(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/research", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ==========================
// Research Endpoint
// ==========================

func TestHandleResearch_Success(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	pipeline := &mockPipeline{result: passingResult("Lambda scales per request.")}
	router := newTestRouter(t, pipeline, store)

	rec := postResearch(t, router, `{"question": "What's the difference between Lambda and ECS?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Lambda scales per request.", resp.Answer)
	assert.Equal(t, "comparison", resp.QuestionType)
	assert.True(t, resp.QualityPassed)
	assert.Equal(t, 5, resp.CitationCount)
	assert.Equal(t, 1, resp.Attempts)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Equal(t, 1, pipeline.calls)
}

func TestHandleResearch_MintsSessionWhenMissing(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	pipeline := &mockPipeline{result: passingResult("answer")}
	router := newTestRouter(t, pipeline, store)

	rec := postResearch(t, router, `{"question": "What is S3?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)

	// The minted session is real and flowed into the pipeline.
	require.Len(t, pipeline.sessionIDs, 1)
	assert.Equal(t, resp.SessionID, pipeline.sessionIDs[0])

	sess, err := store.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is S3?"}, sess.ConversationHistory)
}

func TestHandleResearch_ReusesProvidedSession(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	pipeline := &mockPipeline{result: passingResult("answer")}
	router := newTestRouter(t, pipeline, store)

	payload := fmt.Sprintf(`{"question": "Tell me more about pricing", "session_id": %q}`, id)
	rec := postResearch(t, router, payload)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, []string{id}, pipeline.sessionIDs)
}

func TestHandleResearch_HistoryAppendedAfterPipeline(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	var historyAtCallTime []string
	pipeline := &recordingPipeline{
		result: passingResult("answer"),
		onCall: func(sessionID string) {
			sess, err := store.Get(ctx, sessionID)
			require.NoError(t, err)
			historyAtCallTime = sess.ConversationHistory
		},
	}
	router := newTestRouter(t, pipeline, store)

	payload := fmt.Sprintf(`{"question": "What is Fargate?", "session_id": %q}`, id)
	rec := postResearch(t, router, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	// The pipeline saw the history before the current question landed.
	assert.Empty(t, historyAtCallTime)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is Fargate?"}, sess.ConversationHistory)
}

type recordingPipeline struct {
	result *orchestrator.Result
	onCall func(sessionID string)
}

func (p *recordingPipeline) Answer(ctx context.Context, question, sessionID string) (*orchestrator.Result, error) {
	p.onCall(sessionID)
	return p.result, nil
}

func TestHandleResearch_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "EmptyBody", payload: ``},
		{name: "MissingQuestion", payload: `{"session_id": "abc"}`},
		{name: "EmptyQuestion", payload: `{"question": ""}`},
		{name: "MalformedJSON", payload: `{"question": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore(session.DefaultOptions())
			pipeline := &mockPipeline{result: passingResult("answer")}
			router := newTestRouter(t, pipeline, store)

			rec := postResearch(t, router, tt.payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, pipeline.calls)
		})
	}
}

func TestHandleResearch_PipelineFailure(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	pipeline := &mockPipeline{err: fmt.Errorf("agent unreachable")}
	router := newTestRouter(t, pipeline, store)

	rec := postResearch(t, router, `{"question": "What is S3?"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "research agent unavailable", body["error"])
	assert.NotEmpty(t, body["session_id"])
}

// ==========================
// Health and Metrics
// ==========================

func TestHandleHealth(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	router := newTestRouter(t, &mockPipeline{result: passingResult("x")}, store)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	store := session.NewMemoryStore(session.DefaultOptions())
	router := newTestRouter(t, &mockPipeline{result: passingResult("x")}, store)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
