package telemetry

import "codeberg.org/mutker/enviromon/internal/errors"

const (
	defaultDirPerm      = 0o755
	defaultBatchSize    = 32
	defaultFlushSeconds = 300
)

type Config struct {
	Enabled      bool
	DBPath       string
	BatchSize    int // snapshots buffered before a flush
	FlushSeconds int // background flush interval
}

func DefaultConfig(enabled bool, dbPath string) Config {
	return Config{
		Enabled:      enabled,
		DBPath:       dbPath,
		BatchSize:    defaultBatchSize,
		FlushSeconds: defaultFlushSeconds,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 1 || c.FlushSeconds < 1 {
		return errFactory.WithData(ErrInvalidConfig, "batch size and flush interval must be positive")
	}

	return nil
}
