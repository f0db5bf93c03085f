package telemetry

import (
	"context"
	"time"
)

// Collector receives one snapshot per completed polling cycle. The no-op
// implementation is used when telemetry is disabled.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository is the storage backend for snapshots.
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}

// Snapshot is the set of samples appended during one polling cycle.
type Snapshot struct {
	Timestamp time.Time
	Values    map[string]float64
}
