package sensor

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFrame assembles a frame body (length word, 13 data words, checksum)
// the way the sensor emits it after the two header bytes.
func buildFrame(words [13]uint16) []byte {
	buf := make([]byte, pmsPayloadLen+2)
	binary.BigEndian.PutUint16(buf[0:2], pmsPayloadLen)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[2+i*2:], w)
	}

	sum := uint16(pmsHeader1) + uint16(pmsHeader2)
	for _, b := range buf[:pmsPayloadLen] {
		sum += uint16(b)
	}
	binary.BigEndian.PutUint16(buf[pmsPayloadLen:], sum)

	return buf
}

func TestDecodePMSFrame(t *testing.T) {
	// Words 1-3 are CF=1 values, words 4-6 the atmospheric ones
	frame := buildFrame([13]uint16{3, 8, 13, 5, 10, 15, 0, 0, 0, 0, 0, 0, 0})

	pm1, pm25, pm10, err := decodePMSFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, 5.0, pm1, "Expected the atmospheric PM1.0 word, not CF=1")
	assert.Equal(t, 10.0, pm25)
	assert.Equal(t, 15.0, pm10)
}

func TestDecodePMSFrameBadChecksum(t *testing.T) {
	frame := buildFrame([13]uint16{0, 0, 0, 5, 10, 15, 0, 0, 0, 0, 0, 0, 0})
	frame[len(frame)-1]++

	_, _, _, err := decodePMSFrame(frame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestDecodePMSFrameBadLength(t *testing.T) {
	frame := buildFrame([13]uint16{})
	binary.BigEndian.PutUint16(frame[0:2], 20)

	_, _, _, err := decodePMSFrame(frame)
	assert.Error(t, err)

	_, _, _, err = decodePMSFrame(frame[:10])
	assert.Error(t, err)
}
