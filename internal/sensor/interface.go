// Package sensor provides the metric sources the polling loop reads from:
// real Enviro+ hardware behind periph.io, or simulated values when no
// hardware is present. The store and the polling loop never know which
// variant is in use.
package sensor

import "context"

// Reading maps series names to measured values. Scalar metric groups return
// a single entry keyed by the group name; composite groups (gas,
// particulates) return one entry per sub-metric.
type Reading map[string]float64

// Source is a polymorphic sensor backend. Read must honor the context
// deadline: a hung hardware read reports a timeout instead of stalling the
// polling loop.
type Source interface {
	Name() string
	Groups() []string
	Read(ctx context.Context, group string) (Reading, error)
	Close() error
}
