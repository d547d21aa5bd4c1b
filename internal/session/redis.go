package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"research-assistant/internal/models"
)

const keyPrefix = "session:"

// RedisStore persists one JSON record per session. Each write replaces the
// whole record with a single SET, which gives the single-record atomicity
// the pipeline relies on; the TTL is refreshed on every write.
type RedisStore struct {
	client *redis.Client
	opts   Options
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *redis.Client, opts Options) *RedisStore {
	return &RedisStore{
		client: client,
		opts:   opts,
	}
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	sess := &models.Session{
		ID:                  id,
		ConversationHistory: []string{},
		CreatedAt:           now,
		LastAccessed:        now,
	}

	if err := s.write(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) SetLastAnalysis(ctx context.Context, sessionID string, analysis models.AnalysisContext) (bool, error) {
	sess, err := s.Get(ctx, sessionID)
	if err == ErrSessionNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sess.LastAnalysis = &analysis
	sess.LastAccessed = time.Now().UTC()
	if err := s.write(ctx, sess); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) AppendHistory(ctx context.Context, sessionID string, question string) (bool, error) {
	sess, err := s.Get(ctx, sessionID)
	if err == ErrSessionNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sess.ConversationHistory = capHistory(append(sess.ConversationHistory, question), s.opts.HistoryLimit)
	sess.LastAccessed = time.Now().UTC()
	if err := s.write(ctx, sess); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) write(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+sess.ID, raw, s.opts.TTL).Err()
}
