package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-assistant/internal/models"
)

// ==========================
// Memory Store Tests
// ==========================

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.NotNil(t, sess.ConversationHistory)
	assert.Empty(t, sess.ConversationHistory)
	assert.Nil(t, sess.LastAnalysis)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestMemoryStore_GetUnknownSession(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())

	sess, err := store.Get(context.Background(), "missing")

	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_SetLastAnalysis(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	ok, err := store.SetLastAnalysis(ctx, id, models.AnalysisContext{
		Question: "What is AWS Lambda?",
		Summary:  "Lambda is a serverless compute service.",
		Services: []string{"Lambda"},
		Topics:   []string{"Pricing"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess.LastAnalysis)
	assert.Equal(t, "What is AWS Lambda?", sess.LastAnalysis.Question)
	assert.Equal(t, []string{"Lambda"}, sess.LastAnalysis.Services)
}

func TestMemoryStore_SetLastAnalysisUnknownSession(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())

	ok, err := store.SetLastAnalysis(context.Background(), "missing", models.AnalysisContext{})

	// Unknown session is a soft miss, not an error.
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_AppendHistoryKeepsRecentEntries(t *testing.T) {
	store := NewMemoryStore(Options{TTL: time.Hour, HistoryLimit: 3})
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		ok, err := store.AppendHistory(ctx, id, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		require.True(t, ok)
	}

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"question 3", "question 4", "question 5"}, sess.ConversationHistory)
}

func TestMemoryStore_AppendHistoryUnknownSession(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())

	ok, err := store.AppendHistory(context.Background(), "missing", "anything")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ExpiryOnAccess(t *testing.T) {
	store := NewMemoryStore(Options{TTL: time.Hour, HistoryLimit: 20})
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	id, err := store.Create(ctx)
	require.NoError(t, err)

	// Still alive just inside the TTL window.
	current = current.Add(59 * time.Minute)
	_, err = store.Get(ctx, id)
	require.NoError(t, err)

	// Get refreshed LastAccessed, so the window restarts from here.
	current = current.Add(61 * time.Minute)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Expired sessions behave like they never existed for writes too.
	ok, err := store.SetLastAnalysis(ctx, id, models.AnalysisContext{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_GetReturnsIndependentCopy(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	ok, err := store.AppendHistory(ctx, id, "first")
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	sess.ConversationHistory[0] = "tampered"
	sess.LastAnalysis = &models.AnalysisContext{Question: "tampered"}

	fresh, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, fresh.ConversationHistory)
	assert.Nil(t, fresh.LastAnalysis)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore(DefaultOptions())
	ctx := context.Background()

	first, err := store.Create(ctx)
	require.NoError(t, err)
	second, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	ok, err := store.SetLastAnalysis(ctx, first, models.AnalysisContext{Question: "q1"})
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := store.Get(ctx, second)
	require.NoError(t, err)
	assert.Nil(t, sess.LastAnalysis)
}
