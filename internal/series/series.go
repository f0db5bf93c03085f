// Package series implements a fixed-capacity, insertion-ordered sample
// history for a single metric. A Series is not safe for concurrent use on
// its own; the store serializes access.
package series

import "time"

// Sample is one timestamped reading. Immutable once appended.
type Sample struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Stats summarizes the currently retained window of a series. Evicted
// samples never contribute: statistics are a rolling-window view.
type Stats struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"avg"`
	Count   int     `json:"count"`
}

// Series is a bounded FIFO of samples, oldest first.
type Series struct {
	capacity int
	samples  []Sample
}

// New creates an empty series. Capacities below 1 are clamped to 1.
func New(capacity int) *Series {
	if capacity < 1 {
		capacity = 1
	}

	return &Series{
		capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

// Append adds a sample at the tail, evicting the oldest sample when the
// series is full. The length never exceeds the capacity.
func (s *Series) Append(sample Sample) {
	if len(s.samples) >= s.capacity {
		copy(s.samples, s.samples[1:])
		s.samples[len(s.samples)-1] = sample

		return
	}

	s.samples = append(s.samples, sample)
}

// Snapshot returns a copy of the retained samples in insertion order. The
// returned slice is owned by the caller.
func (s *Series) Snapshot() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)

	return out
}

// Latest returns the most recently appended sample. ok is false when the
// series holds no data yet.
func (s *Series) Latest() (Sample, bool) {
	if len(s.samples) == 0 {
		return Sample{}, false
	}

	return s.samples[len(s.samples)-1], true
}

// Stats computes min, max, mean and current value over the retained window.
// ok is false when the series holds no data yet; zero values are never
// fabricated for an empty series.
func (s *Series) Stats() (Stats, bool) {
	if len(s.samples) == 0 {
		return Stats{}, false
	}

	stats := Stats{
		Current: s.samples[len(s.samples)-1].Value,
		Min:     s.samples[0].Value,
		Max:     s.samples[0].Value,
		Count:   len(s.samples),
	}

	sum := 0.0
	for _, sample := range s.samples {
		if sample.Value < stats.Min {
			stats.Min = sample.Value
		}
		if sample.Value > stats.Max {
			stats.Max = sample.Value
		}
		sum += sample.Value
	}
	stats.Mean = sum / float64(len(s.samples))

	return stats, true
}

// Len returns the number of retained samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Capacity returns the fixed capacity set at construction.
func (s *Series) Capacity() int {
	return s.capacity
}
