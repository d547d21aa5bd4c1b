package models

import "time"

// AnalysisContext is the compact summary of one completed exchange. One
// record is kept per session and overwritten on every successful exchange;
// the follow-up detector reads it back on the next question.
type AnalysisContext struct {
	Question  string    `json:"question"`
	Summary   string    `json:"summary"`
	Services  []string  `json:"services"`
	Topics    []string  `json:"topics"`
	CreatedAt time.Time `json:"createdAt"`
}

// FollowUpDecision reports whether the current question continues a prior
// exchange. RecoveredContext is set only when IsFollowUp is true.
type FollowUpDecision struct {
	IsFollowUp       bool             `json:"isFollowUp"`
	Confidence       float64          `json:"confidence"`
	RecoveredContext *AnalysisContext `json:"recoveredContext,omitempty"`
	Reasoning        []string         `json:"reasoning"`
}
