package sensor

import (
	"bufio"
	"encoding/binary"
	"io"

	"codeberg.org/mutker/enviromon/internal/errors"
	serial "github.com/jacobsa/go-serial/serial"
)

// PMS5003 particulate sensor over UART. The sensor streams 32-byte frames:
// a 0x42 0x4D header, a big-endian length field (always 28), thirteen
// big-endian data words and a 16-bit additive checksum over everything
// before it.
const (
	defaultPMSPort = "/dev/ttyAMA0"

	pmsHeader1    = 0x42
	pmsHeader2    = 0x4d
	pmsPayloadLen = 28
)

type pms5003 struct {
	port   io.Closer
	reader *bufio.Reader
}

func newPMS5003(portName string) (*pms5003, error) {
	if portName == "" {
		portName = defaultPMSPort
	}

	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        9600,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, errors.New().Wrap(ErrInitFailed, err)
	}

	return &pms5003{port: port, reader: bufio.NewReader(port)}, nil
}

// ReadFrame synchronizes on the next frame header and returns the
// atmospheric-environment PM1.0, PM2.5 and PM10 concentrations in µg/m³.
func (p *pms5003) ReadFrame() (pm1, pm25, pm10 float64, err error) {
	if err = p.sync(); err != nil {
		return 0, 0, 0, err
	}

	var buf [pmsPayloadLen + 2]byte
	if _, err = io.ReadFull(p.reader, buf[:]); err != nil {
		return 0, 0, 0, errors.New().Wrap(ErrBadFrame, err)
	}

	return decodePMSFrame(buf[:])
}

// sync consumes bytes until a 0x42 0x4D header is seen.
func (p *pms5003) sync() error {
	for {
		b, err := p.reader.ReadByte()
		if err != nil {
			return errors.New().Wrap(ErrUnavailable, err)
		}
		if b != pmsHeader1 {
			continue
		}

		b, err = p.reader.ReadByte()
		if err != nil {
			return errors.New().Wrap(ErrUnavailable, err)
		}
		if b == pmsHeader2 {
			return nil
		}
	}
}

// decodePMSFrame validates length and checksum of a frame body (everything
// after the two header bytes) and extracts the atmospheric concentrations.
func decodePMSFrame(buf []byte) (pm1, pm25, pm10 float64, err error) {
	errFactory := errors.New()

	if len(buf) != pmsPayloadLen+2 {
		return 0, 0, 0, errFactory.WithData(ErrBadFrame, len(buf))
	}

	if length := binary.BigEndian.Uint16(buf[0:2]); length != pmsPayloadLen {
		return 0, 0, 0, errFactory.WithData(ErrBadFrame, length)
	}

	sum := uint16(pmsHeader1) + uint16(pmsHeader2)
	for _, b := range buf[:pmsPayloadLen] {
		sum += uint16(b)
	}
	if sum != binary.BigEndian.Uint16(buf[pmsPayloadLen:]) {
		return 0, 0, 0, errFactory.WithMessage(ErrBadFrame, "checksum mismatch")
	}

	// Words 4-6 are the atmospheric-environment concentrations; words 1-3
	// are the CF=1 factory calibration values.
	pm1 = float64(binary.BigEndian.Uint16(buf[8:10]))
	pm25 = float64(binary.BigEndian.Uint16(buf[10:12]))
	pm10 = float64(binary.BigEndian.Uint16(buf[12:14]))

	return pm1, pm25, pm10, nil
}

func (p *pms5003) Close() error {
	return p.port.Close()
}
