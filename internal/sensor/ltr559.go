package sensor

import (
	"codeberg.org/mutker/enviromon/internal/errors"
	"periph.io/x/conn/v3/i2c"
)

// LTR559 ambient light / proximity sensor, register-level over I2C.
// Register map per the Lite-On LTR-559ALS-01 datasheet.
const (
	ltr559Addr = 0x23

	ltr559RegALSContr    = 0x80
	ltr559RegPSContr     = 0x81
	ltr559RegPSLED       = 0x82
	ltr559RegALSMeasRate = 0x85
	ltr559RegPartID      = 0x86
	ltr559RegALSData     = 0x88 // CH1 low, CH1 high, CH0 low, CH0 high
	ltr559RegPSData      = 0x8d

	ltr559PartID = 0x09 // high nibble of the part ID register

	ltr559ALSActive = 0x01 // gain 1x, active mode
	ltr559PSActive  = 0x03 // active mode
)

type ltr559 struct {
	dev i2c.Dev
}

func newLTR559(bus i2c.Bus) (*ltr559, error) {
	errFactory := errors.New()

	d := &ltr559{dev: i2c.Dev{Bus: bus, Addr: ltr559Addr}}

	var id [1]byte
	if err := d.dev.Tx([]byte{ltr559RegPartID}, id[:]); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}
	if id[0]>>4 != ltr559PartID {
		return nil, errFactory.WithData(ErrInitFailed, id[0])
	}

	if err := d.dev.Tx([]byte{ltr559RegALSContr, ltr559ALSActive}, nil); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}
	if err := d.dev.Tx([]byte{ltr559RegPSContr, ltr559PSActive}, nil); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	return d, nil
}

// Lux reads both ALS channels and converts to an illuminance estimate using
// the channel-ratio segments from the datasheet, at 1x gain and the default
// 100 ms integration time.
func (d *ltr559) Lux() (float64, error) {
	var buf [4]byte
	if err := d.dev.Tx([]byte{ltr559RegALSData}, buf[:]); err != nil {
		return 0, err
	}

	ch1 := float64(uint16(buf[0]) | uint16(buf[1])<<8)
	ch0 := float64(uint16(buf[2]) | uint16(buf[3])<<8)

	if ch0+ch1 == 0 {
		return 0, nil
	}

	ratio := ch1 / (ch0 + ch1)
	var lux float64
	switch {
	case ratio < 0.45:
		lux = 1.7743*ch0 + 1.1059*ch1
	case ratio < 0.64:
		lux = 4.2785*ch0 - 1.9548*ch1
	case ratio < 0.85:
		lux = 0.5926*ch0 + 0.1185*ch1
	default:
		lux = 0
	}

	return lux, nil
}

// Proximity reads the 11-bit proximity counter. Larger values mean closer.
func (d *ltr559) Proximity() (uint16, error) {
	var buf [2]byte
	if err := d.dev.Tx([]byte{ltr559RegPSData}, buf[:]); err != nil {
		return 0, err
	}

	return (uint16(buf[0]) | uint16(buf[1])<<8) & 0x07ff, nil
}
