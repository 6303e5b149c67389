package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newMemoryManager(t *testing.T) (*manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	store := NewMemoryStore(16, time.Hour).(*memoryStore)
	store.now = clock.Now
	return &manager{store: store, now: clock.Now}, clock
}

func newRedisManager(t *testing.T) (Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewManager(NewRedisStore(client)), mr
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemoryManager(t)

	sess, err := m.Create(ctx, "user-1", "a@b.com", 30*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, clock.Now(), sess.CreatedAt)
	assert.Equal(t, clock.Now().Add(30*time.Minute), sess.ExpiresAt)

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "a@b.com", got.Email)
}

func TestManager_CreateRejectsNonPositiveTTL(t *testing.T) {
	m, _ := newMemoryManager(t)

	_, err := m.Create(context.Background(), "user-1", "a@b.com", 0)
	assert.Error(t, err)
}

func TestManager_GetUnknownAndEmpty(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemoryManager(t)

	_, err := m.Get(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	m, clock := newMemoryManager(t)

	sess, err := m.Create(ctx, "user-1", "a@b.com", time.Minute)
	require.NoError(t, err)

	clock.Advance(time.Minute)

	_, err = m.Get(ctx, sess.ID)
	assert.Error(t, err)
}

func TestManager_ExpiredRecordIsDeleted(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Now()}
	store := NewMemoryStore(16, time.Hour)
	m := &manager{store: store, now: clock.Now}

	sess, err := m.Create(ctx, "user-1", "a@b.com", time.Minute)
	require.NoError(t, err)

	// The store still holds the record, but the manager clock says it is stale.
	clock.Advance(2 * time.Minute)

	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	exists, err := store.Exists(ctx, key(sess.ID))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestManager_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemoryManager(t)

	sess, err := m.Create(ctx, "user-1", "a@b.com", time.Minute)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, sess.ID))
	require.NoError(t, m.Delete(ctx, sess.ID))
	require.NoError(t, m.Delete(ctx, ""))

	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemoryManager(t)

	require.NoError(t, m.store.Set(ctx, key("broken"), "{not json", time.Minute))

	_, err := m.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRedisManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, mr := newRedisManager(t)

	sess, err := m.Create(ctx, "user-1", "a@b.com", 10*time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists("session:"+sess.ID))
	assert.Equal(t, 10*time.Minute, mr.TTL("session:"+sess.ID))

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Email, got.Email)

	require.NoError(t, m.Delete(ctx, sess.ID))
	require.NoError(t, m.Delete(ctx, sess.ID))
	assert.False(t, mr.Exists("session:"+sess.ID))

	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisManager_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	m, mr := newRedisManager(t)

	sess, err := m.Create(ctx, "user-1", "a@b.com", time.Minute)
	require.NoError(t, err)

	mr.FastForward(time.Minute + time.Second)

	_, err = m.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Health(t *testing.T) {
	m, mr := newRedisManager(t)
	require.NoError(t, m.Health(context.Background()))

	mr.Close()
	assert.Error(t, m.Health(context.Background()))
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, time.Hour)

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "2", time.Minute))
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "c", "3", time.Minute))

	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	v, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestSession_MaxAge(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(90 * time.Second)}

	assert.Equal(t, 90, s.MaxAge(now))
	assert.Equal(t, 0, s.MaxAge(now.Add(time.Hour)))
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(90*time.Second)))
}
