package metadata

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// gpsCoordinates derives the "lat, lon" decimal-degree string from the
// GPS IFD. Any missing tag or arithmetic failure yields the absence
// sentinel; a partial coordinate is never produced.
func gpsCoordinates(exifData *exif.Exif) string {
	latTag, latErr := exifData.Get(exif.GPSLatitude)
	lonTag, lonErr := exifData.Get(exif.GPSLongitude)
	if latErr != nil || lonErr != nil {
		return NotAvailable
	}

	lat, err := dmsToDecimal(latTag)
	if err != nil {
		return NotAvailable
	}
	lon, err := dmsToDecimal(lonTag)
	if err != nil {
		return NotAvailable
	}

	// sign convention: south latitudes and west longitudes are negative;
	// an unrecognized reference value means no flip
	if gpsRef(exifData, exif.GPSLatitudeRef) == "S" {
		lat = -lat
	}
	if gpsRef(exifData, exif.GPSLongitudeRef) == "W" {
		lon = -lon
	}

	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

// dmsToDecimal converts a degree/minute/second rational triplet to
// decimal degrees using exact rational arithmetic, converting to a float
// only at the end.
func dmsToDecimal(tag *tiff.Tag) (float64, error) {
	divisors := [3]int64{1, 60, 3600}
	total := new(big.Rat)

	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return 0, fmt.Errorf("gps component %d: %w", i, err)
		}
		if den == 0 {
			return 0, fmt.Errorf("gps component %d: zero denominator", i)
		}
		term := new(big.Rat).SetFrac64(num, den)
		term.Quo(term, new(big.Rat).SetInt64(divisors[i]))
		total.Add(total, term)
	}

	f, _ := total.Float64()
	return f, nil
}

// gpsRef returns the first byte of a hemisphere reference tag as an
// uppercase string, or "" when absent.
func gpsRef(exifData *exif.Exif, name exif.FieldName) string {
	tag, err := exifData.Get(name)
	if err != nil || tag == nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		s = strings.Trim(tag.String(), `"`)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}
