package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_CurrentUserPointer(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(NewMemoryKVStore())

	_, err := s.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.SetCurrentUser(ctx, "trainer_demo_1a2b3c4d"))

	userID, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "trainer_demo_1a2b3c4d", userID)

	require.NoError(t, s.ClearCurrentUser(ctx))

	_, err = s.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSessionStore_PressureSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(NewMemoryKVStore())

	snap := PressureSnapshot{
		Pressure:    150,
		IsDeflating: true,
		UpdatedAt:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SavePressure(ctx, "u1", snap))

	loaded, err := s.GetPressure(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 150, loaded.Pressure)
	assert.True(t, loaded.IsDeflating)

	require.NoError(t, s.ClearPressure(ctx, "u1"))

	_, err = s.GetPressure(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryKVStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()

	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	now := base
	kv.now = func() time.Time { return now }

	require.NoError(t, kv.Set(ctx, "k", "v", 30*time.Second))

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	now = base.Add(31 * time.Second)
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
