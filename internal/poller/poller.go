// Package poller runs the periodic sensor acquisition cycle: read every
// metric group from the source, append what succeeded to the store, sleep
// until the next tick. One cycle at a time; a slow cycle skips ticks instead
// of catching up.
package poller

import (
	"context"
	"time"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/logger"
	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/series"
	"codeberg.org/mutker/enviromon/internal/store"
	"codeberg.org/mutker/enviromon/internal/telemetry"
)

type Config struct {
	Interval    time.Duration // time between cycle starts
	ReadTimeout time.Duration // per-group acquisition deadline
}

type Poller struct {
	store     *store.Store
	source    sensor.Source
	collector telemetry.Collector
	cfg       Config
}

func New(cfg Config, st *store.Store, source sensor.Source, collector telemetry.Collector) (*Poller, error) {
	errFactory := errors.New()

	if cfg.Interval <= 0 {
		return nil, errFactory.WithData(ErrInvalidInterval, cfg.Interval)
	}
	if cfg.ReadTimeout <= 0 {
		return nil, errFactory.WithData(ErrInvalidTimeout, cfg.ReadTimeout)
	}
	if st == nil {
		return nil, errFactory.New(ErrMissingStore)
	}
	if source == nil {
		return nil, errFactory.New(ErrMissingSource)
	}

	return &Poller{
		store:     st,
		source:    source,
		collector: collector,
		cfg:       cfg,
	}, nil
}

// Run polls until the context is canceled. The first cycle starts
// immediately so the dashboard has data without waiting a full interval.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	logger.Info().
		Str("source", p.source.Name()).
		Dur("interval", p.cfg.Interval).
		Msg("Sensor polling started")

	p.Cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Sensor polling stopped")
			return nil
		case <-ticker.C:
			p.Cycle(ctx)
		}
	}
}

// Cycle acquires every metric group once and appends the successful
// readings. Per-group failures are logged and skipped; a fully failed cycle
// appends nothing, leaving a gap in the series rather than fabricated
// values. Returns the number of samples appended.
func (p *Poller) Cycle(ctx context.Context) int {
	start := time.Now()
	appended := 0
	values := make(map[string]float64)

	for _, group := range p.source.Groups() {
		if ctx.Err() != nil {
			return appended
		}

		readCtx, cancel := context.WithTimeout(ctx, p.cfg.ReadTimeout)
		reading, err := p.source.Read(readCtx, group)
		cancel()
		if err != nil {
			logger.Warn().
				Str("group", group).
				Err(err).
				Msg("Sensor read failed, skipping group")
			continue
		}

		at := time.Now()
		for name, value := range reading {
			if err := p.store.Record(name, series.Sample{Time: at, Value: value}); err != nil {
				logger.Warn().
					Str("metric", name).
					Err(err).
					Msg("Failed to record sample, skipping")
				continue
			}
			values[name] = value
			appended++
		}
	}

	if appended > 0 && p.collector != nil {
		snapshot := &telemetry.Snapshot{Timestamp: start, Values: values}
		if err := p.collector.Record(ctx, snapshot); err != nil {
			logger.Warn().Err(err).Msg("Telemetry record failed")
		}
	}

	logger.Info().
		Int("samples", appended).
		Dur("elapsed", time.Since(start)).
		Msg("Polling cycle complete")

	return appended
}
