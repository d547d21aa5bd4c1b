// Package session implements the session store contract used by the
// research pipeline: a keyed mapping from session id to one small record
// holding the conversation history and the last analysis snapshot.
package session

import (
	"context"
	"errors"
	"time"

	"research-assistant/internal/models"
)

// ErrSessionNotFound is returned by Get for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store is the contract the pipeline depends on. Writes to a single session
// record must be atomic at record granularity; the pipeline assumes but does
// not enforce that property.
type Store interface {
	// Create allocates a new empty session and returns its id.
	Create(ctx context.Context) (string, error)

	// Get returns the session record, or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*models.Session, error)

	// SetLastAnalysis overwrites the session's last-analysis snapshot.
	// Returns false (without error) when the session id is unknown.
	SetLastAnalysis(ctx context.Context, sessionID string, analysis models.AnalysisContext) (bool, error)

	// AppendHistory appends a question to the conversation history, keeping
	// only the most recent entries. Returns false for unknown sessions.
	AppendHistory(ctx context.Context, sessionID string, question string) (bool, error)
}

// Options carries the store behavior shared by every backend.
type Options struct {
	TTL          time.Duration
	HistoryLimit int
}

// DefaultOptions mirrors the original session manager: 24 hour expiry and
// the last 20 exchanges kept.
func DefaultOptions() Options {
	return Options{
		TTL:          24 * time.Hour,
		HistoryLimit: 20,
	}
}

func capHistory(history []string, limit int) []string {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}
