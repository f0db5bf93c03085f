package display

import (
	"testing"
	"time"

	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/series"
	"github.com/stretchr/testify/assert"
)

func sample(value float64) series.Sample {
	return series.Sample{Time: time.Now(), Value: value}
}

func TestBuildLines(t *testing.T) {
	lines := buildLines(map[string]series.Sample{
		sensor.GroupTemperature: sample(21.5),
		sensor.GroupHumidity:    sample(48),
		sensor.GroupPressure:    sample(1013),
	})

	assert.Equal(t, []string{"T 21.5C", "H 48%  P 1013"}, lines)
}

func TestBuildLinesMissingMetrics(t *testing.T) {
	lines := buildLines(map[string]series.Sample{})

	assert.Equal(t, "T --", lines[0], "Expected dashes, not zeros, for missing data")
	assert.Equal(t, "H --  P --", lines[1])
}

func TestBuildLinesParticulates(t *testing.T) {
	lines := buildLines(map[string]series.Sample{
		sensor.GroupTemperature: sample(20),
		sensor.SeriesPM25:       sample(9),
		sensor.SeriesPM10:       sample(14),
	})

	assert.Contains(t, lines, "PM2.5 9 PM10 14")
	assert.Contains(t, lines, "AIR: GOOD")
}

func TestAirQualityTag(t *testing.T) {
	assert.Equal(t, "AIR: GOOD", airQualityTag(12))
	assert.Equal(t, "AIR: MODERATE", airQualityTag(12.1))
	assert.Equal(t, "AIR: MODERATE", airQualityTag(35))
	assert.Equal(t, "AIR: POOR", airQualityTag(35.1))
}
