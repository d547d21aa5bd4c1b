// Package handlers exposes the research pipeline over a thin HTTP surface.
// All decision logic lives in the pipeline; these handlers only bind
// requests, issue session ids, and shape responses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"research-assistant/internal/common/logger"
	"research-assistant/internal/research/orchestrator"
	"research-assistant/internal/session"
)

// Pipeline is the orchestrator surface the handler depends on.
type Pipeline interface {
	Answer(ctx context.Context, question, sessionID string) (*orchestrator.Result, error)
}

// ResearchRequest is the inbound question payload.
type ResearchRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// ResearchResponse carries the answer plus pipeline metadata.
type ResearchResponse struct {
	Answer             string   `json:"answer"`
	SessionID          string   `json:"session_id"`
	QuestionType       string   `json:"question_type"`
	Confidence         float64  `json:"confidence"`
	IsFollowUp         bool     `json:"is_follow_up"`
	FollowUpConfidence float64  `json:"follow_up_confidence"`
	FollowUpReasoning  []string `json:"follow_up_reasoning,omitempty"`
	QualityScore       float64  `json:"quality_score"`
	QualityPassed      bool     `json:"quality_passed"`
	QualityIssues      []string `json:"quality_issues,omitempty"`
	CitationCount      int      `json:"citation_count"`
	Attempts           int      `json:"attempts"`
	Timestamp          string   `json:"timestamp"`
}

// ResearchHandler serves the question-answering endpoint.
type ResearchHandler struct {
	pipeline Pipeline
	sessions session.Store
	logger   logger.Logger
}

func NewResearchHandler(pipeline Pipeline, sessions session.Store, log logger.Logger) *ResearchHandler {
	return &ResearchHandler{
		pipeline: pipeline,
		sessions: sessions,
		logger: log.With(map[string]interface{}{
			"component": "research-handler",
		}),
	}
}

// HandleResearch answers one question. A missing session id gets a fresh
// session so the next question can be detected as a follow-up. The question
// is appended to history only after the pipeline ran, so follow-up signals
// count past exchanges, not the current one.
func (h *ResearchHandler) HandleResearch(c *gin.Context) {
	var req ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := h.sessions.Create(ctx)
		if err != nil {
			h.logger.Warn("session creation failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			sessionID = id
		}
	}

	result, err := h.pipeline.Answer(ctx, req.Question, sessionID)
	if err != nil {
		h.logger.Error("pipeline failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "research agent unavailable",
			"session_id": sessionID,
		})
		return
	}

	if sessionID != "" {
		if _, err := h.sessions.AppendHistory(ctx, sessionID, req.Question); err != nil {
			h.logger.Warn("history append failed", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, ResearchResponse{
		Answer:             result.Answer,
		SessionID:          sessionID,
		QuestionType:       result.Classification.Type.Name,
		Confidence:         result.Classification.Confidence,
		IsFollowUp:         result.FollowUp.IsFollowUp,
		FollowUpConfidence: result.FollowUp.Confidence,
		FollowUpReasoning:  result.FollowUp.Reasoning,
		QualityScore:       result.Report.Score,
		QualityPassed:      result.Report.Passed,
		QualityIssues:      result.Report.Issues,
		CitationCount:      result.Report.CitationCount,
		Attempts:           result.Attempts,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleHealth reports liveness.
func (h *ResearchHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
