// Package orchestrator sequences the research pipeline: classify the
// question, detect follow-up context, build the agent prompt, execute,
// validate, retry once with corrections when quality falls short, and store
// the exchange context for future follow-up detection.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"research-assistant/internal/agent"
	"research-assistant/internal/common/logger"
	"research-assistant/internal/common/metrics"
	"research-assistant/internal/common/observability"
	"research-assistant/internal/models"
	"research-assistant/internal/research/classifier"
	"research-assistant/internal/research/contextextract"
	"research-assistant/internal/research/followup"
	"research-assistant/internal/research/prompt"
	"research-assistant/internal/research/validator"
	"research-assistant/internal/session"
)

// Config holds the orchestrator settings.
type Config struct {
	// MaxAttempts bounds the total number of agent calls per request,
	// including the first one.
	MaxAttempts int
}

// Result is the pipeline outcome returned to the transport layer. A failed
// quality report never blocks the answer; it rides along as metadata.
type Result struct {
	Answer         string                      `json:"answer"`
	Classification models.ClassificationResult `json:"classification"`
	FollowUp       models.FollowUpDecision     `json:"followUp"`
	Report         models.QualityReport        `json:"report"`
	Attempts       int                         `json:"attempts"`
	ContextStored  bool                        `json:"contextStored"`
}

// Orchestrator wires the pipeline components to the two external
// collaborators.
type Orchestrator struct {
	agent    agent.Agent
	store    session.Store
	detector *followup.Detector
	config   *Config
	logger   logger.Logger
	obs      *observability.Observability
}

// New builds an orchestrator. MaxAttempts below 1 is coerced to 1.
func New(a agent.Agent, store session.Store, config *Config, log logger.Logger, obs *observability.Observability) *Orchestrator {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &Orchestrator{
		agent:    a,
		store:    store,
		detector: followup.NewDetector(store),
		config:   config,
		logger: log.With(map[string]interface{}{
			"component": "orchestrator",
		}),
		obs: obs,
	}
}

// Answer runs the full pipeline for one question. The only error it returns
// is an agent boundary failure that left no usable answer after the attempt
// budget; every other shortfall degrades into metadata on the Result.
func (o *Orchestrator) Answer(ctx context.Context, question, sessionID string) (*Result, error) {
	cls := classifier.Classify(question)
	metrics.ResearchRequests.WithLabelValues(cls.Type.Name).Inc()

	decision := o.detector.Detect(ctx, question, sessionID)
	if decision.IsFollowUp {
		metrics.FollowUpsDetected.Inc()
	}

	o.logger.Info("pipeline started", map[string]interface{}{
		"questionType": cls.Type.Name,
		"confidence":   cls.Confidence,
		"isFollowUp":   decision.IsFollowUp,
		"sessionId":    sessionID,
	})

	promptText := prompt.Build(question, cls, &decision)

	var lastResp *agent.Response
	var lastReport models.QualityReport
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		attempts = attempt
		metrics.AgentAttempts.Inc()

		start := time.Now()
		resp, err := o.agent.Execute(ctx, promptText)
		metrics.AgentCallDuration.Observe(time.Since(start).Seconds())
		o.obs.RecordStageDuration(ctx, "execute", time.Since(start))

		if err != nil {
			lastErr = err
			o.logger.Warn("agent execution failed", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			continue
		}
		lastResp = resp

		report := validator.Validate(resp.Answer, question, cls, resp.ToolUsage)
		lastReport = report
		if report.Passed {
			break
		}

		metrics.ValidationFailures.WithLabelValues(cls.Type.Name).Inc()
		o.logger.Warn("validation shortfall", map[string]interface{}{
			"attempt": attempt,
			"score":   report.Score,
			"issues":  report.Issues,
		})
		promptText = prompt.AppendCorrections(promptText, report.Issues)
	}

	if lastResp == nil {
		o.obs.RecordRequest(ctx, "failed")
		if lastErr == nil {
			lastErr = fmt.Errorf("no agent response produced")
		}
		return nil, lastErr
	}

	// The final answer always feeds follow-up detection for the next
	// exchange, independent of whether validation passed.
	stored := o.storeContext(ctx, question, sessionID, lastResp.Answer)

	status := "accepted"
	if !lastReport.Passed {
		status = "degraded"
	}
	o.obs.RecordRequest(ctx, status)

	o.logger.Info("pipeline finished", map[string]interface{}{
		"attempts":      attempts,
		"passed":        lastReport.Passed,
		"score":         lastReport.Score,
		"contextStored": stored,
	})

	return &Result{
		Answer:         lastResp.Answer,
		Classification: cls,
		FollowUp:       decision,
		Report:         lastReport,
		Attempts:       attempts,
		ContextStored:  stored,
	}, nil
}

func (o *Orchestrator) storeContext(ctx context.Context, question, sessionID, answer string) bool {
	if sessionID == "" {
		return false
	}

	analysis := contextextract.Extract(answer, question)
	ok, err := o.store.SetLastAnalysis(ctx, sessionID, analysis)
	if err != nil {
		o.logger.Warn("context store failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return false
	}
	if !ok {
		o.logger.Warn("context store skipped, unknown session", map[string]interface{}{
			"sessionId": sessionID,
		})
		return false
	}
	return true
}
