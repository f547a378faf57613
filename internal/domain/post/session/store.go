// Package session keeps post-session entries backing interactive actions.
// In-memory by design: entries are abandoned on restart and that is an
// accepted loss, answered with an expiry notice.
package session

import (
	"context"
	"time"

	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clipfetch/clipfetch-bot/internal/domain/post/entities"
)

const sweepInterval = 10 * time.Minute

// NewID returns a short opaque session identifier, compact enough to ride
// inside Telegram callback data
func NewID() string {
	return uuid.NewString()[:8]
}

// MemoryStore implements deps.SessionStore with a TTL and a max-entry cap
// so an unattended process does not grow without bound
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entities.SessionEntry

	ttl        time.Duration
	maxEntries int
	logger     zerolog.Logger
}

// NewMemoryStore creates a store; non-positive ttl disables expiry,
// non-positive maxEntries disables the cap
func NewMemoryStore(ttl time.Duration, maxEntries int, logger zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*entities.SessionEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger.With().Str("component", "session_store").Logger(),
	}
}

// Put registers an entry, evicting the oldest one when the cap is reached
func (s *MemoryStore) Put(entry *entities.SessionEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	s.entries[entry.ID] = entry
	s.logger.Debug().Str("session_id", entry.ID).Int("entries", len(s.entries)).Msg("session entry stored")
}

// Get returns a live entry; expired entries answer as misses
func (s *MemoryStore) Get(id string) (*entities.SessionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.expired(entry) {
		return nil, false
	}
	return entry, true
}

// Remove deletes an entry
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
}

// Len returns the number of stored entries, expired ones included until
// the next sweep
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// SweepExpired drops expired entries and returns how many were removed
func (s *MemoryStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("remaining", len(s.entries)).Msg("swept expired session entries")
	}
	return removed
}

// Run sweeps periodically until the context ends
func (s *MemoryStore) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepExpired()
		}
	}
}

func (s *MemoryStore) expired(entry *entities.SessionEntry) bool {
	return s.ttl > 0 && time.Since(entry.CreatedAt) > s.ttl
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time

	for id, entry := range s.entries {
		if oldestID == "" || entry.CreatedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = entry.CreatedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
		s.logger.Debug().Str("session_id", oldestID).Msg("evicted oldest session entry")
	}
}
