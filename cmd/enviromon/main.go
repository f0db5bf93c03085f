package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"codeberg.org/mutker/enviromon/internal/api"
	"codeberg.org/mutker/enviromon/internal/config"
	"codeberg.org/mutker/enviromon/internal/display"
	"codeberg.org/mutker/enviromon/internal/logger"
	"codeberg.org/mutker/enviromon/internal/pid"
	"codeberg.org/mutker/enviromon/internal/poller"
	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/store"
	"codeberg.org/mutker/enviromon/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func run(ctx context.Context) error {
	profile, err := sensor.ParseProfile(cfg.Profile)
	if err != nil {
		return err
	}

	source := newSource(profile)
	defer func() {
		if err := source.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close sensor source")
		}
	}()

	st, err := store.New(profile.SeriesNames(), cfg.Capacity)
	if err != nil {
		return err
	}

	collector, err := telemetry.NewCollector(telemetry.DefaultConfig(cfg.Telemetry, cfg.TelemetryDB))
	if err != nil {
		return err
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry collector")
		}
	}()

	p, err := poller.New(poller.Config{
		Interval:    time.Duration(cfg.Interval) * time.Second,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
	}, st, source, collector)
	if err != nil {
		return err
	}

	server := api.New(api.Config{Listen: cfg.Listen}, st)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("poller stopped with error")
		}
	}()

	if cfg.Display {
		if d, err := display.New(st, 0); err != nil {
			logger.Warn().Err(err).Msg("OLED unavailable, continuing without it")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.Run(ctx)
				if err := d.Close(); err != nil {
					logger.Error().Err(err).Msg("failed to close display")
				}
			}()
		}
	}

	err = server.Run(ctx)
	wg.Wait()

	return err
}

// newSource picks the hardware source unless mock mode is forced or the
// hardware is absent, in which case the simulated source stands in so the
// daemon is usable on a development machine.
func newSource(profile sensor.Profile) sensor.Source {
	if cfg.Mock {
		logger.Info().Msg("Using simulated sensors")
		return sensor.NewSimulated(profile)
	}

	source, err := sensor.NewEnviro(profile, cfg.PMSPort)
	if err != nil {
		logger.Warn().Err(err).Msg("Hardware sensors unavailable, falling back to simulated")
		return sensor.NewSimulated(profile)
	}

	return source
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
