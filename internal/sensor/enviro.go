package sensor

import (
	"context"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/enviromon/internal/errors"
	"codeberg.org/mutker/enviromon/internal/logger"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

const (
	bme280Addr = 0x76

	// The BME280 sits close to the Pi's SoC; readings run warm. The raw
	// temperature is corrected against the CPU temperature with this factor.
	cpuCompensationFactor = 4.9

	cpuThermalPath = "/sys/class/thermal/thermal_zone0/temp"
)

// Enviro reads the Pimoroni Enviro+ sensor stack: BME280 over I2C for
// temperature, pressure and humidity, LTR559 over I2C for light and
// proximity, PMS5003 over serial for particulates. Sensors that fail to
// initialize are reported unavailable per cycle instead of failing the
// whole source.
type Enviro struct {
	profile Profile
	bus     i2c.BusCloser
	bme     *bmxx80.Dev
	ltr     *ltr559
	pms     *pms5003
}

func NewEnviro(profile Profile, pmsPort string) (*Enviro, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	e := &Enviro{profile: profile, bus: bus}

	if bme, err := bmxx80.NewI2C(bus, bme280Addr, &bmxx80.DefaultOpts); err != nil {
		logger.Warn().Err(err).Msg("BME280 not available")
	} else {
		e.bme = bme
		logger.Info().Msg("BME280 sensor initialized")
	}

	if profile == ProfileAirQuality {
		if ltr, err := newLTR559(bus); err != nil {
			logger.Warn().Err(err).Msg("LTR559 not available")
		} else {
			e.ltr = ltr
			logger.Info().Msg("LTR559 sensor initialized")
		}

		if pms, err := newPMS5003(pmsPort); err != nil {
			logger.Warn().Err(err).Msg("PMS5003 not available")
		} else {
			e.pms = pms
			logger.Info().Str("port", pmsPort).Msg("PMS5003 sensor initialized")
		}
	}

	if e.bme == nil && e.ltr == nil && e.pms == nil {
		bus.Close()
		return nil, errFactory.WithMessage(ErrUnavailable, "no Enviro+ sensors detected")
	}

	return e, nil
}

func (e *Enviro) Name() string {
	return "enviro"
}

func (e *Enviro) Groups() []string {
	return e.profile.Groups()
}

// Read acquires one metric group, bounded by the context deadline. Hardware
// calls run in their own goroutine; on deadline expiry the abandoned
// goroutine exits once the blocking call returns.
func (e *Enviro) Read(ctx context.Context, group string) (Reading, error) {
	switch group {
	case GroupTemperature:
		return readDeadline(ctx, e.readTemperature)
	case GroupPressure:
		return readDeadline(ctx, e.readPressure)
	case GroupHumidity:
		return readDeadline(ctx, e.readHumidity)
	case GroupLight:
		return readDeadline(ctx, e.readLight)
	case GroupProximity:
		return readDeadline(ctx, e.readProximity)
	case GroupGas:
		// TODO: MICS6814 gas readings need an ADS1015 ADC driver.
		return nil, errors.New().WithMessage(ErrUnavailable, "gas sensor not supported on hardware yet")
	case GroupParticulates:
		return readDeadline(ctx, e.readParticulates)
	default:
		return nil, errors.New().WithData(ErrUnknownGroup, group)
	}
}

func (e *Enviro) Close() error {
	if e.pms != nil {
		e.pms.Close()
	}

	return e.bus.Close()
}

func (e *Enviro) senseBME() (physic.Env, error) {
	if e.bme == nil {
		return physic.Env{}, errors.New().WithMessage(ErrUnavailable, "BME280 not initialized")
	}

	var env physic.Env
	if err := e.bme.Sense(&env); err != nil {
		return physic.Env{}, errors.New().Wrap(ErrUnavailable, err)
	}

	return env, nil
}

func (e *Enviro) readTemperature() (Reading, error) {
	env, err := e.senseBME()
	if err != nil {
		return nil, err
	}

	raw := env.Temperature.Celsius()
	if cpu, err := cpuTemperature(); err == nil {
		raw -= (cpu - raw) / cpuCompensationFactor
	}

	return Reading{GroupTemperature: raw}, nil
}

func (e *Enviro) readPressure() (Reading, error) {
	env, err := e.senseBME()
	if err != nil {
		return nil, err
	}

	// Pa -> hPa
	pressure := float64(env.Pressure) / float64(physic.Pascal) / 100.0

	return Reading{GroupPressure: pressure}, nil
}

func (e *Enviro) readHumidity() (Reading, error) {
	env, err := e.senseBME()
	if err != nil {
		return nil, err
	}

	humidity := float64(env.Humidity) / float64(physic.PercentRH)

	return Reading{GroupHumidity: humidity}, nil
}

func (e *Enviro) readLight() (Reading, error) {
	if e.ltr == nil {
		return nil, errors.New().WithMessage(ErrUnavailable, "LTR559 not initialized")
	}

	lux, err := e.ltr.Lux()
	if err != nil {
		return nil, errors.New().Wrap(ErrUnavailable, err)
	}

	return Reading{GroupLight: lux}, nil
}

func (e *Enviro) readProximity() (Reading, error) {
	if e.ltr == nil {
		return nil, errors.New().WithMessage(ErrUnavailable, "LTR559 not initialized")
	}

	proximity, err := e.ltr.Proximity()
	if err != nil {
		return nil, errors.New().Wrap(ErrUnavailable, err)
	}

	return Reading{GroupProximity: float64(proximity)}, nil
}

func (e *Enviro) readParticulates() (Reading, error) {
	if e.pms == nil {
		return nil, errors.New().WithMessage(ErrUnavailable, "PMS5003 not initialized")
	}

	pm1, pm25, pm10, err := e.pms.ReadFrame()
	if err != nil {
		return nil, errors.New().Wrap(ErrUnavailable, err)
	}

	return Reading{SeriesPM1: pm1, SeriesPM25: pm25, SeriesPM10: pm10}, nil
}

type readResult struct {
	reading Reading
	err     error
}

func readDeadline(ctx context.Context, fn func() (Reading, error)) (Reading, error) {
	done := make(chan readResult, 1)
	go func() {
		reading, err := fn()
		done <- readResult{reading: reading, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.New().Wrap(ErrReadTimeout, ctx.Err())
	case res := <-done:
		return res.reading, res.err
	}
}

// cpuTemperature reads the SoC temperature the kernel exposes, in Celsius.
func cpuTemperature() (float64, error) {
	raw, err := os.ReadFile(cpuThermalPath)
	if err != nil {
		return 0, err
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, err
	}

	return milli / 1000.0, nil
}
