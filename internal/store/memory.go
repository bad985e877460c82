package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/ski-tracker/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh forecast is cached for a location.
	ErrNotFound = errors.New("no forecast for location")
)

// MemoryStore is a concurrency-safe in-memory forecast cache holding the
// latest snapshot per location.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]weather.ForecastSnapshot

	maxAge time.Duration // 0 = never expires
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0 snapshots never
// expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]weather.ForecastSnapshot),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// SaveForecast stores snapshot unless one from a newer generation is held.
func (s *MemoryStore) SaveForecast(loc weather.Location, snapshot weather.ForecastSnapshot) bool {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.data[key]; ok && current.Generation > snapshot.Generation {
		return false
	}
	s.data[key] = snapshot
	return true
}

// GetLatest returns the cached snapshot for a location if it has not expired.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.ForecastSnapshot, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[key]
	if !ok {
		return weather.ForecastSnapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(snap.FetchedAt) > s.maxAge {
		return weather.ForecastSnapshot{}, ErrNotFound
	}
	return snap, nil
}
