// Package store owns the bounded per-metric sample histories. One Store
// instance is created at startup and shared by the polling loop (single
// writer) and the HTTP handlers (many readers).
package store

import (
	"sync"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/series"
)

// Store holds one bounded series per configured metric. All methods are safe
// for concurrent use; a single RWMutex serializes appends against snapshots.
// The lock is only ever held for the duration of an append or a copy, never
// across sensor or network I/O.
type Store struct {
	mu       sync.RWMutex
	capacity int
	names    []string
	series   map[string]*series.Series
}

// New creates a store for the given metric names. The metric set is fixed
// for the lifetime of the store.
func New(names []string, capacity int) (*Store, error) {
	errFactory := errors.New()

	if capacity < 1 {
		return nil, errFactory.WithData(ErrInvalidCapacity, capacity)
	}
	if len(names) == 0 {
		return nil, errFactory.New(ErrNoMetrics)
	}

	byName := make(map[string]*series.Series, len(names))
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := byName[name]; ok {
			return nil, errFactory.WithData(ErrDuplicateMetric, name)
		}
		byName[name] = series.New(capacity)
		ordered = append(ordered, name)
	}

	return &Store{
		capacity: capacity,
		names:    ordered,
		series:   byName,
	}, nil
}

// Record appends a sample to the named metric's series. Unknown metric names
// are rejected; the caller decides whether that is fatal (the polling loop
// logs and continues).
func (s *Store) Record(name string, sample series.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sr, ok := s.series[name]
	if !ok {
		return errors.New().WithData(ErrUnknownMetric, name)
	}
	sr.Append(sample)

	return nil
}

// Snapshot returns a copy of the named metric's retained samples, oldest
// first.
func (s *Store) Snapshot(name string) ([]series.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, ok := s.series[name]
	if !ok {
		return nil, errors.New().WithData(ErrUnknownMetric, name)
	}

	return sr.Snapshot(), nil
}

// Latest returns the most recent sample for the named metric, or an
// empty-series error when no data has been recorded yet.
func (s *Store) Latest(name string) (series.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, ok := s.series[name]
	if !ok {
		return series.Sample{}, errors.New().WithData(ErrUnknownMetric, name)
	}

	sample, ok := sr.Latest()
	if !ok {
		return series.Sample{}, errors.New().WithData(ErrEmptySeries, name)
	}

	return sample, nil
}

// LatestAll returns the most recent sample for every metric that has data.
// Metrics without samples are absent from the map: gaps are visible, never
// filled with zeros.
func (s *Store) LatestAll() map[string]series.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]series.Sample, len(s.names))
	for name, sr := range s.series {
		if sample, ok := sr.Latest(); ok {
			out[name] = sample
		}
	}

	return out
}

// AllStats maps every configured metric to its rolling-window statistics.
// Metrics without samples map to nil.
func (s *Store) AllStats() map[string]*series.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*series.Stats, len(s.names))
	for name, sr := range s.series {
		if stats, ok := sr.Stats(); ok {
			out[name] = &stats
		} else {
			out[name] = nil
		}
	}

	return out
}

// Names returns the configured metric names in construction order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)

	return out
}

// Capacity returns the per-metric sample capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the number of retained samples for the named metric, or 0 for
// unknown metrics.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sr, ok := s.series[name]
	if !ok {
		return 0
	}

	return sr.Len()
}
