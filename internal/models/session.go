package models

import "time"

// Session is the externally owned per-conversation record. The pipeline only
// ever reads LastAnalysis and appends to ConversationHistory; it never
// deletes or expires sessions itself (the store applies the TTL).
type Session struct {
	ID                  string           `json:"id"`
	ConversationHistory []string         `json:"conversationHistory"`
	LastAnalysis        *AnalysisContext `json:"lastAnalysis,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	LastAccessed        time.Time        `json:"lastAccessed"`
}
