package sensor_test

import (
	"testing"

	"codeberg.org/mutker/enviromon/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	p, err := sensor.ParseProfile("weather")
	require.NoError(t, err)
	assert.Equal(t, sensor.ProfileWeather, p)

	p, err = sensor.ParseProfile("airquality")
	require.NoError(t, err)
	assert.Equal(t, sensor.ProfileAirQuality, p)

	_, err = sensor.ParseProfile("outdoor")
	assert.Error(t, err, "Expected error for unknown profile")
}

func TestWeatherProfileSeries(t *testing.T) {
	names := sensor.ProfileWeather.SeriesNames()
	assert.Equal(t, []string{"temperature", "pressure", "humidity"}, names)
}

func TestAirQualityProfileSeries(t *testing.T) {
	names := sensor.ProfileAirQuality.SeriesNames()
	assert.Equal(t, []string{
		"temperature", "pressure", "humidity",
		"light", "proximity",
		"gas_oxidising", "gas_reducing", "gas_nh3",
		"pm1_0", "pm2_5", "pm10",
	}, names)
}

func TestGroupSeries(t *testing.T) {
	assert.Equal(t, []string{"temperature"}, sensor.GroupSeries(sensor.GroupTemperature))
	assert.Equal(t, []string{"pm1_0", "pm2_5", "pm10"}, sensor.GroupSeries(sensor.GroupParticulates))
	assert.Equal(t, []string{"gas_oxidising", "gas_reducing", "gas_nh3"}, sensor.GroupSeries(sensor.GroupGas))
	assert.Nil(t, sensor.GroupSeries("bogus"))
}
