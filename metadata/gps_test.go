package metadata

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gpsRational struct {
	num, den uint32
}

func dms(d, m, s uint32) [3]gpsRational {
	return [3]gpsRational{{d, 1}, {m, 1}, {s, 1}}
}

// buildGPSTiff assembles a minimal little-endian TIFF stream whose only
// payload is a GPS IFD with the two coordinate tags and their hemisphere
// references. goexif decodes raw TIFF directly, so no JPEG wrapper is
// needed.
func buildGPSTiff(t *testing.T, latRef string, lat [3]gpsRational, lonRef string, lon [3]gpsRational) []byte {
	t.Helper()
	var buf bytes.Buffer
	write := func(v any) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	// layout: header (8) | IFD0 (18) | GPS IFD (54) | lat rationals (24)
	// | lon rationals (24)
	const (
		gpsIFDOffset  = 26
		latDataOffset = 80
		lonDataOffset = 104
	)

	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8)) // IFD0 offset

	// IFD0: a single GPSInfoIFDPointer entry
	write(uint16(1))
	write(uint16(0x8825))
	write(uint16(4)) // LONG
	write(uint32(1))
	write(uint32(gpsIFDOffset))
	write(uint32(0))

	writeASCII := func(tag uint16, s string) {
		write(tag)
		write(uint16(2)) // ASCII
		write(uint32(len(s) + 1))
		var val [4]byte
		copy(val[:], s)
		write(val)
	}
	writeRationalTriplet := func(tag uint16, offset uint32) {
		write(tag)
		write(uint16(5)) // RATIONAL
		write(uint32(3))
		write(offset)
	}

	write(uint16(4))
	writeASCII(0x0001, latRef) // GPSLatitudeRef
	writeRationalTriplet(0x0002, latDataOffset)
	writeASCII(0x0003, lonRef) // GPSLongitudeRef
	writeRationalTriplet(0x0004, lonDataOffset)
	write(uint32(0))

	for _, r := range lat {
		write(r.num)
		write(r.den)
	}
	for _, r := range lon {
		write(r.num)
		write(r.den)
	}
	return buf.Bytes()
}

func decodeGPSFixture(t *testing.T, latRef string, lat [3]gpsRational, lonRef string, lon [3]gpsRational) *exif.Exif {
	t.Helper()
	data := buildGPSTiff(t, latRef, lat, lonRef, lon)
	x, err := exif.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return x
}

func TestGPSCoordinates(t *testing.T) {
	// 40°26'46" = 40.446111..., 79°58'56" = 79.982222...
	lat := dms(40, 26, 46)
	lon := dms(79, 58, 56)

	t.Run("north east positive", func(t *testing.T) {
		x := decodeGPSFixture(t, "N", lat, "E", lon)
		assert.Equal(t, "40.446111, 79.982222", gpsCoordinates(x))
	})

	t.Run("south west flip", func(t *testing.T) {
		x := decodeGPSFixture(t, "S", lat, "W", lon)
		assert.Equal(t, "-40.446111, -79.982222", gpsCoordinates(x))
	})

	t.Run("lowercase references still flip", func(t *testing.T) {
		x := decodeGPSFixture(t, "s", lat, "w", lon)
		assert.Equal(t, "-40.446111, -79.982222", gpsCoordinates(x))
	})

	t.Run("unrecognized references do not flip", func(t *testing.T) {
		x := decodeGPSFixture(t, "X", lat, "Q", lon)
		assert.Equal(t, "40.446111, 79.982222", gpsCoordinates(x))
	})

	t.Run("zero denominator yields absence sentinel", func(t *testing.T) {
		broken := [3]gpsRational{{40, 1}, {26, 0}, {46, 1}}
		x := decodeGPSFixture(t, "N", broken, "E", lon)
		assert.Equal(t, NotAvailable, gpsCoordinates(x))
	})
}

func TestGPSRef(t *testing.T) {
	lat := dms(1, 2, 3)
	lon := dms(4, 5, 6)
	x := decodeGPSFixture(t, "s", lat, "W", lon)

	assert.Equal(t, "S", gpsRef(x, exif.GPSLatitudeRef))
	assert.Equal(t, "W", gpsRef(x, exif.GPSLongitudeRef))
	assert.Equal(t, "", gpsRef(x, exif.GPSAltitudeRef))
}
