package config

import (
	"os"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envConfigPath = "ENVIROMON_CONFIG"

	DefaultLogLevel    = "info"
	defaultInterval    = 600
	defaultCapacity    = 1000
	defaultReadTimeout = 10
	defaultProfile     = "weather"
	defaultListen      = ":8080"
	defaultDBPath      = "/var/lib/enviromon/telemetry.db"
	defaultPMSPort     = "/dev/ttyAMA0"
)

// Config is the full configuration surface of the daemon. Values are merged
// from defaults, /etc/enviromon.toml (or ENVIROMON_CONFIG) and command line
// flags, in increasing priority.
type Config struct {
	Interval    int    // seconds between sensor polls
	Capacity    int    // samples retained per metric
	Profile     string // deployment profile: weather or airquality
	Listen      string // HTTP listen address
	ReadTimeout int    `mapstructure:"read_timeout"` // per-sensor read deadline, seconds
	Mock        bool   // force simulated sensors
	PMSPort     string `mapstructure:"pms_port"` // serial device of the particulate sensor
	Display     bool   // enable the OLED readout
	Telemetry   bool   // archive samples to SQLite
	TelemetryDB string `mapstructure:"database"`
	LogLevel    string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("capacity", defaultCapacity)
	v.SetDefault("profile", defaultProfile)
	v.SetDefault("listen", defaultListen)
	v.SetDefault("read_timeout", defaultReadTimeout)
	v.SetDefault("mock", false)
	v.SetDefault("pms_port", defaultPMSPort)
	v.SetDefault("display", false)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)

	fs := pflag.NewFlagSet("enviromon", pflag.ContinueOnError)
	fs.Int("interval", defaultInterval, "Seconds between sensor polls")
	fs.Int("capacity", defaultCapacity, "Samples retained per metric")
	fs.String("profile", defaultProfile, "Deployment profile (weather or airquality)")
	fs.String("listen", defaultListen, "HTTP listen address")
	fs.Int("read-timeout", defaultReadTimeout, "Per-sensor read timeout in seconds")
	fs.Bool("mock", false, "Use simulated sensors instead of hardware")
	fs.String("pms-port", defaultPMSPort, "Serial device of the particulate sensor")
	fs.Bool("display", false, "Enable the OLED readout")
	fs.Bool("telemetry", false, "Archive samples to SQLite")
	fs.String("database", defaultDBPath, "Telemetry database path")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"interval":     "interval",
		"capacity":     "capacity",
		"profile":      "profile",
		"listen":       "listen",
		"read_timeout": "read-timeout",
		"mock":         "mock",
		"pms_port":     "pms-port",
		"display":      "display",
		"telemetry":    "telemetry",
		"database":     "database",
		"log_level":    "log-level",
	}
	for key, flagName := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func readConfigFile(v *viper.Viper) error {
	errFactory := errors.New()

	if path := os.Getenv(envConfigPath); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}

		return nil
	}

	v.SetConfigName("enviromon")
	v.SetConfigType("toml")
	v.AddConfigPath("/etc")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks numeric bounds and the log level. The profile string is
// validated by the sensor package when the source is constructed.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval < 1 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Capacity < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, "capacity must be at least 1")
	}
	if c.ReadTimeout < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, "read_timeout must be at least 1")
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "database path required when telemetry is enabled")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}
