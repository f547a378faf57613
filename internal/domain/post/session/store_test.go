package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

func newEntry(id string, createdAt time.Time) *entities.SessionEntry {
	return &entities.SessionEntry{
		ID:        id,
		ChatID:    1,
		Kind:      entities.SessionKindVideo,
		CreatedAt: createdAt,
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	require.Len(t, id, 8)
	require.NotEqual(t, id, NewID())
}

func TestMemoryStore_PutGetRemove(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10, zerolog.Nop())

	store.Put(newEntry("abc12345", time.Now()))
	require.Equal(t, 1, store.Len())

	entry, ok := store.Get("abc12345")
	require.True(t, ok)
	require.Equal(t, "abc12345", entry.ID)

	_, ok = store.Get("missing0")
	require.False(t, ok)

	store.Remove("abc12345")
	require.Equal(t, 0, store.Len())
	_, ok = store.Get("abc12345")
	require.False(t, ok)
}

func TestMemoryStore_ExpiredEntryIsMiss(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10, zerolog.Nop())

	store.Put(newEntry("stale000", time.Now().Add(-2*time.Hour)))

	_, ok := store.Get("stale000")
	require.False(t, ok)

	// Still counted until a sweep runs.
	require.Equal(t, 1, store.Len())
	require.Equal(t, 1, store.SweepExpired())
	require.Equal(t, 0, store.Len())
}

func TestMemoryStore_ZeroTTLDisablesExpiry(t *testing.T) {
	store := NewMemoryStore(0, 10, zerolog.Nop())

	store.Put(newEntry("old00000", time.Now().Add(-240*time.Hour)))

	_, ok := store.Get("old00000")
	require.True(t, ok)
	require.Equal(t, 0, store.SweepExpired())
}

func TestMemoryStore_CapEvictsOldest(t *testing.T) {
	store := NewMemoryStore(time.Hour, 3, zerolog.Nop())

	base := time.Now()
	for i := 0; i < 3; i++ {
		store.Put(newEntry(fmt.Sprintf("entry-%d0", i), base.Add(time.Duration(i)*time.Minute)))
	}
	require.Equal(t, 3, store.Len())

	store.Put(newEntry("entry-30", base.Add(3*time.Minute)))

	require.Equal(t, 3, store.Len())
	_, ok := store.Get("entry-00")
	require.False(t, ok)
	_, ok = store.Get("entry-30")
	require.True(t, ok)
}
