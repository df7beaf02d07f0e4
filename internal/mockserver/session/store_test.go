package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/amoylab/npipe-admin/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(config.SessionRedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

// testStore runs the behavior every Store must share
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess := &Session{ID: "s1", Username: "admin", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, s.Delete(ctx, "s1"))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	testStore(t, s)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Session{ID: "s1", ExpiresAt: now.Add(time.Minute)}))
	_, err := s.Get(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Session{ID: "s1", ExpiresAt: time.Now().Add(time.Minute)}))
	assert.True(t, mr.Exists(defaultPrefix+"s1"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, s.Save(ctx, &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)}))
	assert.False(t, mr.Exists(defaultPrefix+"old"))
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(zap.NewNop(), &config.SessionConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	mr := miniredis.RunT(t)
	s, err = NewStore(zap.NewNop(), &config.SessionConfig{Type: "redis", Redis: config.SessionRedisConfig{Addr: mr.Addr(), Prefix: "p:"}})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	_ = s.Close()

	_, err = NewStore(zap.NewNop(), &config.SessionConfig{Type: "bolt"})
	assert.Error(t, err)
}
