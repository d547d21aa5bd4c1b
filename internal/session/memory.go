package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"research-assistant/internal/models"
)

// MemoryStore keeps sessions in process memory behind a mutex. It is the
// default backend for local development and tests; records vanish at
// process exit.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	opts     Options
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		opts:     opts,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.now()
	s.sessions[id] = &models.Session{
		ID:                  id,
		ConversationHistory: []string{},
		CreatedAt:           now,
		LastAccessed:        now,
	}
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.LastAccessed = s.now()

	copied := *sess
	copied.ConversationHistory = append([]string(nil), sess.ConversationHistory...)
	if sess.LastAnalysis != nil {
		analysis := *sess.LastAnalysis
		copied.LastAnalysis = &analysis
	}
	return &copied, nil
}

func (s *MemoryStore) SetLastAnalysis(ctx context.Context, sessionID string, analysis models.AnalysisContext) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return false, nil
	}
	sess.LastAnalysis = &analysis
	sess.LastAccessed = s.now()
	return true, nil
}

func (s *MemoryStore) AppendHistory(ctx context.Context, sessionID string, question string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return false, nil
	}
	sess.ConversationHistory = capHistory(append(sess.ConversationHistory, question), s.opts.HistoryLimit)
	sess.LastAccessed = s.now()
	return true, nil
}

// lookup must be called with the mutex held. Expired sessions are removed
// on access, matching the redis backend's TTL behavior.
func (s *MemoryStore) lookup(sessionID string) (*models.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.opts.TTL > 0 && s.now().Sub(sess.LastAccessed) > s.opts.TTL {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
