// Package display drives an optional 128x64 SSD1306 OLED with a compact
// readout of the latest samples. The daemon runs fine without it; a missing
// or failing panel is logged and ignored.
package display

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/logger"
	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/series"
	"codeberg.org/mutker/enviromon/internal/store"
)

const (
	width  = 128
	height = 64

	lineHeight = 13
	firstLine  = 12

	defaultRefresh = 5 * time.Second
)

type Display struct {
	dev     *ssd1306.Dev
	bus     i2c.BusCloser
	store   *store.Store
	refresh time.Duration
}

// New opens the default I2C bus and initializes the panel. host.Init is
// idempotent, so it does not matter whether the sensor layer ran first.
func New(st *store.Store, refresh time.Duration) (*Display, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	if refresh <= 0 {
		refresh = defaultRefresh
	}

	return &Display{
		dev:     dev,
		bus:     bus,
		store:   st,
		refresh: refresh,
	}, nil
}

// Run redraws the panel on a fixed cadence until the context is canceled,
// then blanks it.
func (d *Display) Run(ctx context.Context) {
	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()

	logger.Info().Dur("refresh", d.refresh).Msg("OLED readout started")

	for {
		if err := d.draw(); err != nil {
			logger.Warn().Err(err).Msg("OLED draw failed")
		}

		select {
		case <-ctx.Done():
			d.blank()
			return
		case <-ticker.C:
		}
	}
}

func (d *Display) Close() error {
	return d.bus.Close()
}

func (d *Display) draw() error {
	latest := d.store.LatestAll()

	img := image1bit.NewVerticalLSB(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	lines := buildLines(latest)
	y := firstLine
	for _, line := range lines {
		drawer.Dot = fixed.P(0, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	return d.dev.Draw(d.dev.Bounds(), img, image.Point{})
}

func (d *Display) blank() {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, width, height))
	if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
		logger.Warn().Err(err).Msg("OLED blank failed")
	}
}

// buildLines renders up to four lines for the panel. Metrics without any
// sample yet are shown as dashes rather than zeros.
func buildLines(latest map[string]series.Sample) []string {
	lines := []string{
		"T " + formatValue(latest, sensor.GroupTemperature, "%.1fC"),
		"H " + formatValue(latest, sensor.GroupHumidity, "%.0f%%") +
			"  P " + formatValue(latest, sensor.GroupPressure, "%.0f"),
	}

	if pm25, ok := latest[sensor.SeriesPM25]; ok {
		pmLine := fmt.Sprintf("PM2.5 %.0f", pm25.Value)
		if pm10, ok := latest[sensor.SeriesPM10]; ok {
			pmLine += fmt.Sprintf(" PM10 %.0f", pm10.Value)
		}
		lines = append(lines, pmLine, airQualityTag(pm25.Value))
	}

	return lines
}

func formatValue(latest map[string]series.Sample, name, format string) string {
	sample, ok := latest[name]
	if !ok {
		return "--"
	}

	return fmt.Sprintf(format, sample.Value)
}

// EPA-style PM2.5 bands for the one-word quality tag.
func airQualityTag(pm25 float64) string {
	switch {
	case pm25 <= 12:
		return "AIR: GOOD"
	case pm25 <= 35:
		return "AIR: MODERATE"
	default:
		return "AIR: POOR"
	}
}
