package sensor

import (
	"context"
	"math/rand/v2"

	"codeberg.org/mutker/enviromon/internal/errors"
)

// gaussSpec describes the normal distribution a simulated series draws from.
// Means and spreads match typical indoor readings.
type gaussSpec struct {
	mean   float64
	stddev float64
}

var simSpecs = map[string]gaussSpec{
	GroupTemperature:   {mean: 20, stddev: 2},
	GroupPressure:      {mean: 1013, stddev: 5},
	GroupHumidity:      {mean: 50, stddev: 10},
	GroupLight:         {mean: 100, stddev: 20},
	GroupProximity:     {mean: 100, stddev: 50},
	SeriesGasOxidising: {mean: 15000, stddev: 1000},
	SeriesGasReducing:  {mean: 150000, stddev: 10000},
	SeriesGasNH3:       {mean: 120000, stddev: 8000},
	SeriesPM1:          {mean: 5, stddev: 2},
	SeriesPM25:         {mean: 10, stddev: 3},
	SeriesPM10:         {mean: 15, stddev: 4},
}

// Simulated is the development fallback source. It never fails and never
// blocks, so the per-read deadline is irrelevant here.
type Simulated struct {
	profile Profile
}

func NewSimulated(profile Profile) *Simulated {
	return &Simulated{profile: profile}
}

func (s *Simulated) Name() string {
	return "simulated"
}

func (s *Simulated) Groups() []string {
	return s.profile.Groups()
}

func (s *Simulated) Read(_ context.Context, group string) (Reading, error) {
	names := GroupSeries(group)
	if names == nil {
		return nil, errors.New().WithData(ErrUnknownGroup, group)
	}

	reading := make(Reading, len(names))
	for _, name := range names {
		spec := simSpecs[name]
		reading[name] = spec.mean + rand.NormFloat64()*spec.stddev
	}

	return reading, nil
}

func (s *Simulated) Close() error {
	return nil
}
