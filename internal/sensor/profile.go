package sensor

import "codeberg.org/mutker/enviromon/internal/errors"

// Metric groups. A group is read as a unit from the hardware; composite
// groups fan out into multiple series.
const (
	GroupTemperature  = "temperature"
	GroupPressure     = "pressure"
	GroupHumidity     = "humidity"
	GroupLight        = "light"
	GroupProximity    = "proximity"
	GroupGas          = "gas"
	GroupParticulates = "particulates"
)

// Series names for the composite groups.
const (
	SeriesGasOxidising = "gas_oxidising"
	SeriesGasReducing  = "gas_reducing"
	SeriesGasNH3       = "gas_nh3"
	SeriesPM1          = "pm1_0"
	SeriesPM25         = "pm2_5"
	SeriesPM10         = "pm10"
)

// Profile is a fixed deployment metric set, chosen once at startup.
type Profile string

const (
	// ProfileWeather covers the BME280 metrics only.
	ProfileWeather Profile = "weather"
	// ProfileAirQuality adds light, proximity, gas and particulates.
	ProfileAirQuality Profile = "airquality"
)

// ParseProfile validates a configured profile name.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileWeather, ProfileAirQuality:
		return Profile(s), nil
	default:
		return "", errors.New().WithData(ErrInvalidProfile, s)
	}
}

// Groups returns the metric groups polled for this profile.
func (p Profile) Groups() []string {
	weather := []string{GroupTemperature, GroupPressure, GroupHumidity}
	if p == ProfileWeather {
		return weather
	}

	return append(weather, GroupLight, GroupProximity, GroupGas, GroupParticulates)
}

// GroupSeries maps a metric group to the series names it produces. Unknown
// groups map to nil.
func GroupSeries(group string) []string {
	switch group {
	case GroupTemperature, GroupPressure, GroupHumidity, GroupLight, GroupProximity:
		return []string{group}
	case GroupGas:
		return []string{SeriesGasOxidising, SeriesGasReducing, SeriesGasNH3}
	case GroupParticulates:
		return []string{SeriesPM1, SeriesPM25, SeriesPM10}
	default:
		return nil
	}
}

// SeriesNames returns every series name the profile's groups produce, in
// polling order. This is the metric set the store is constructed with.
func (p Profile) SeriesNames() []string {
	var names []string
	for _, group := range p.Groups() {
		names = append(names, GroupSeries(group)...)
	}

	return names
}
