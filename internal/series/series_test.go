package series_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/enviromon/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAt(sec int, value float64) series.Sample {
	return series.Sample{
		Time:  time.Date(2025, 6, 1, 12, 0, sec, 0, time.UTC),
		Value: value,
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	s := series.New(3)

	s.Append(sampleAt(1, 10))
	s.Append(sampleAt(2, 20))
	s.Append(sampleAt(3, 30))
	s.Append(sampleAt(4, 40))

	got := s.Snapshot()
	require.Len(t, got, 3, "Expected length capped at capacity")
	assert.Equal(t, 20.0, got[0].Value, "Expected oldest sample evicted")
	assert.Equal(t, 30.0, got[1].Value)
	assert.Equal(t, 40.0, got[2].Value)
	assert.True(t, got[0].Time.Before(got[1].Time), "Expected insertion order preserved")
}

func TestStatsRollingWindow(t *testing.T) {
	s := series.New(3)

	s.Append(sampleAt(1, 10))
	s.Append(sampleAt(2, 20))
	s.Append(sampleAt(3, 30))
	s.Append(sampleAt(4, 40))

	stats, ok := s.Stats()
	require.True(t, ok)
	// The evicted value 10 must not contribute
	assert.Equal(t, 20.0, stats.Min, "Expected min over retained window only")
	assert.Equal(t, 40.0, stats.Max)
	assert.Equal(t, 30.0, stats.Mean)
	assert.Equal(t, 40.0, stats.Current)
	assert.Equal(t, 3, stats.Count)
}

func TestEmptySeries(t *testing.T) {
	s := series.New(5)

	_, ok := s.Latest()
	assert.False(t, ok, "Expected no latest sample for empty series")

	_, ok = s.Stats()
	assert.False(t, ok, "Expected no stats for empty series")

	assert.Empty(t, s.Snapshot())
	assert.Equal(t, 0, s.Len())
}

func TestCapacityClamped(t *testing.T) {
	s := series.New(0)
	assert.Equal(t, 1, s.Capacity(), "Expected capacity clamped to 1")

	s.Append(sampleAt(1, 1))
	s.Append(sampleAt(2, 2))
	require.Equal(t, 1, s.Len())

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, 2.0, latest.Value)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := series.New(3)
	s.Append(sampleAt(1, 10))

	snap := s.Snapshot()
	snap[0].Value = 999

	got := s.Snapshot()
	assert.Equal(t, 10.0, got[0].Value, "Expected snapshot mutation not to affect the series")
}

func TestSingleSampleStats(t *testing.T) {
	s := series.New(3)
	s.Append(sampleAt(1, 42))

	stats, ok := s.Stats()
	require.True(t, ok)
	assert.Equal(t, 42.0, stats.Min)
	assert.Equal(t, 42.0, stats.Max)
	assert.Equal(t, 42.0, stats.Mean)
	assert.Equal(t, 42.0, stats.Current)
	assert.Equal(t, 1, stats.Count)
}
