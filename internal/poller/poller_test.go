package poller_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/poller"
	"codeberg.org/mutker/enviromon/internal/sensor"
	"codeberg.org/mutker/enviromon/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned readings and errors per group.
type fakeSource struct {
	groups   []string
	readings map[string]sensor.Reading
	failures map[string]error
	block    bool
}

func (f *fakeSource) Name() string {
	return "fake"
}

func (f *fakeSource) Groups() []string {
	return f.groups
}

func (f *fakeSource) Read(ctx context.Context, group string) (sensor.Reading, error) {
	if f.block {
		<-ctx.Done()
		return nil, errors.New().Wrap(sensor.ErrReadTimeout, ctx.Err())
	}
	if err, ok := f.failures[group]; ok {
		return nil, err
	}

	return f.readings[group], nil
}

func (f *fakeSource) Close() error {
	return nil
}

func newTestStore(t *testing.T, names ...string) *store.Store {
	t.Helper()

	st, err := store.New(names, 10)
	require.NoError(t, err)

	return st
}

func testConfig() poller.Config {
	return poller.Config{
		Interval:    time.Minute,
		ReadTimeout: 100 * time.Millisecond,
	}
}

func TestNewValidation(t *testing.T) {
	st := newTestStore(t, "temperature")
	source := &fakeSource{groups: []string{"temperature"}}

	_, err := poller.New(poller.Config{Interval: 0, ReadTimeout: time.Second}, st, source, nil)
	assert.Error(t, err, "Expected error for zero interval")

	_, err = poller.New(poller.Config{Interval: time.Second, ReadTimeout: 0}, st, source, nil)
	assert.Error(t, err, "Expected error for zero read timeout")

	_, err = poller.New(testConfig(), nil, source, nil)
	assert.Error(t, err, "Expected error for missing store")

	_, err = poller.New(testConfig(), st, nil, nil)
	assert.Error(t, err, "Expected error for missing source")
}

func TestCycleAppendsSuccessfulGroups(t *testing.T) {
	st := newTestStore(t, "temperature", "pressure", "humidity")
	source := &fakeSource{
		groups: []string{"temperature", "pressure", "humidity"},
		readings: map[string]sensor.Reading{
			"temperature": {"temperature": 21.0},
			"humidity":    {"humidity": 48.0},
		},
		failures: map[string]error{
			"pressure": errors.New().WithMessage(sensor.ErrUnavailable, "sensor gone"),
		},
	}

	p, err := poller.New(testConfig(), st, source, nil)
	require.NoError(t, err)

	appended := p.Cycle(context.Background())
	assert.Equal(t, 2, appended, "Expected only the successful groups appended")

	assert.Equal(t, 1, st.Len("temperature"))
	assert.Equal(t, 1, st.Len("humidity"))
	assert.Equal(t, 0, st.Len("pressure"), "Expected a gap, not a zero, for the failed group")
}

func TestCycleCompositeReading(t *testing.T) {
	st := newTestStore(t, "pm1_0", "pm2_5", "pm10")
	source := &fakeSource{
		groups: []string{"particulates"},
		readings: map[string]sensor.Reading{
			"particulates": {"pm1_0": 4, "pm2_5": 9, "pm10": 14},
		},
	}

	p, err := poller.New(testConfig(), st, source, nil)
	require.NoError(t, err)

	appended := p.Cycle(context.Background())
	assert.Equal(t, 3, appended, "Expected one sample per series of the composite group")
}

func TestCycleSkipsUnknownMetrics(t *testing.T) {
	st := newTestStore(t, "temperature")
	source := &fakeSource{
		groups: []string{"temperature"},
		readings: map[string]sensor.Reading{
			"temperature": {"temperature": 21.0, "bogus": 1.0},
		},
	}

	p, err := poller.New(testConfig(), st, source, nil)
	require.NoError(t, err)

	appended := p.Cycle(context.Background())
	assert.Equal(t, 1, appended, "Expected unknown series name skipped")
	assert.Equal(t, 1, st.Len("temperature"))
}

func TestCycleHonorsReadTimeout(t *testing.T) {
	st := newTestStore(t, "temperature")
	source := &fakeSource{
		groups: []string{"temperature"},
		block:  true,
	}

	p, err := poller.New(testConfig(), st, source, nil)
	require.NoError(t, err)

	start := time.Now()
	appended := p.Cycle(context.Background())
	assert.Equal(t, 0, appended, "Expected nothing appended when every read times out")
	assert.Less(t, time.Since(start), 5*time.Second, "Expected the deadline to bound the cycle")
}

func TestRunStopsOnCancel(t *testing.T) {
	st := newTestStore(t, "temperature")
	source := &fakeSource{
		groups: []string{"temperature"},
		readings: map[string]sensor.Reading{
			"temperature": {"temperature": 20.0},
		},
	}

	p, err := poller.New(testConfig(), st, source, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	// The first cycle runs immediately
	require.Eventually(t, func() bool {
		return st.Len("temperature") == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
