// Package followup decides whether a question continues a prior exchange in
// the same session. The decision is a deterministic sum of four bounded
// signals against the stored last-analysis record.
package followup

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"research-assistant/internal/models"
	"research-assistant/internal/session"
)

// Threshold is the confidence at which a question counts as a follow-up.
const Threshold = 0.4

// Signal weights. Each signal contributes at most its cap; the final
// confidence is clamped to [0,1].
const (
	patternWeight     = 0.3
	serviceMatchStep  = 0.2
	serviceMatchCap   = 0.4
	topicMatchStep    = 0.15
	topicMatchCap     = 0.3
	historyLengthStep = 0.05
	historyLengthCap  = 0.1
)

// followUpPatterns are the continuation phrasings checked against the
// lower-cased question. Only the first match contributes.
var followUpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`how\s+(do|does|can|should)`),
	regexp.MustCompile(`what\s+(about|if|is|are)`),
	regexp.MustCompile(`tell\s+me\s+more`),
	regexp.MustCompile(`explain\s+(more|further)`),
	regexp.MustCompile(`can\s+you`),
	regexp.MustCompile(`what\s+about`),
	regexp.MustCompile(`how\s+about`),
	regexp.MustCompile(`what\s+else`),
	regexp.MustCompile(`also`),
	regexp.MustCompile(`additionally`),
	regexp.MustCompile(`furthermore`),
}

// Detector reads session state to classify follow-up questions.
type Detector struct {
	store session.Store
}

// NewDetector wires the detector to its session store.
func NewDetector(store session.Store) *Detector {
	return &Detector{store: store}
}

// Detect computes the follow-up decision for the question. Missing session
// preconditions are fast paths at confidence 0, never errors.
func (d *Detector) Detect(ctx context.Context, question, sessionID string) models.FollowUpDecision {
	if sessionID == "" {
		return notFollowUp("No session id provided")
	}

	sess, err := d.store.Get(ctx, sessionID)
	if err != nil {
		return notFollowUp("Session not found")
	}

	lastAnalysis := sess.LastAnalysis
	if lastAnalysis == nil {
		return notFollowUp("No previous analysis found")
	}

	lower := strings.ToLower(question)
	confidence := 0.0
	reasoning := []string{}

	for _, pattern := range followUpPatterns {
		if pattern.MatchString(lower) {
			confidence += patternWeight
			reasoning = append(reasoning, fmt.Sprintf("Contains follow-up pattern: %s", pattern.String()))
			break
		}
	}

	serviceMatches := 0
	for _, service := range lastAnalysis.Services {
		if strings.Contains(lower, strings.ToLower(service)) {
			serviceMatches++
		}
	}
	if serviceMatches > 0 {
		confidence += capped(float64(serviceMatches)*serviceMatchStep, serviceMatchCap)
		reasoning = append(reasoning, fmt.Sprintf("References %d previously discussed service(s)", serviceMatches))
	}

	topicMatches := 0
	for _, topic := range lastAnalysis.Topics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			topicMatches++
		}
	}
	if topicMatches > 0 {
		confidence += capped(float64(topicMatches)*topicMatchStep, topicMatchCap)
		reasoning = append(reasoning, fmt.Sprintf("References %d previously discussed topic(s)", topicMatches))
	}

	if historyLength := len(sess.ConversationHistory); historyLength > 0 {
		confidence += capped(float64(historyLength)*historyLengthStep, historyLengthCap)
		reasoning = append(reasoning, fmt.Sprintf("Conversation history exists (%d exchanges)", historyLength))
	}

	confidence = capped(confidence, 1.0)
	isFollowUp := confidence >= Threshold

	decision := models.FollowUpDecision{
		IsFollowUp: isFollowUp,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
	if len(reasoning) == 0 {
		decision.Reasoning = []string{"No follow-up indicators found"}
	}
	if isFollowUp {
		decision.RecoveredContext = lastAnalysis
	}
	return decision
}

func notFollowUp(reason string) models.FollowUpDecision {
	return models.FollowUpDecision{
		IsFollowUp: false,
		Confidence: 0,
		Reasoning:  []string{reason},
	}
}

func capped(value, max float64) float64 {
	if value > max {
		return max
	}
	return value
}
