package metadata

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// extractImage merges EXIF tags and container-level image properties.
// The two layers fail independently: an unreadable EXIF segment does not
// suppress dimension extraction and vice versa.
func (e *Extractor) extractImage(path string, rec Record) {
	if err := readEXIF(path, rec); err != nil {
		rec["EXIF Data"] = fmt.Sprintf("Error extracting EXIF data: %v", err)
	}
	if err := readImageConfig(path, rec); err != nil {
		rec["Image Data"] = fmt.Sprintf("Error extracting image data: %v", err)
	}
}

// rawTagWalker preserves every raw EXIF tag under a namespaced key.
type rawTagWalker struct {
	rec Record
}

func (w rawTagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.rec["EXIF: "+string(name)] = tagString(tag)
	return nil
}

func readEXIF(path string, rec Record) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	exifData, err := exif.Decode(f)
	if err != nil {
		// a file without an EXIF segment is not an error; the friendly
		// fields just carry the absence sentinel
		setEXIFDefaults(rec)
		return nil
	}

	_ = exifData.Walk(rawTagWalker{rec: rec})

	rec["Date and Time"] = firstTagString(exifData, exif.DateTimeOriginal, exif.DateTime)
	rec["Camera Model"] = firstTagString(exifData, exif.Model)
	rec["Camera Make"] = firstTagString(exifData, exif.Make)
	rec["Software"] = firstTagString(exifData, exif.Software)
	rec["GPS Coordinates"] = gpsCoordinates(exifData)
	rec["Exposure Time"] = firstTagString(exifData, exif.ExposureTime)
	rec["F-Stop"] = firstTagString(exifData, exif.FNumber)
	rec["ISO Speed"] = firstTagString(exifData, exif.ISOSpeedRatings)
	rec["Focal Length"] = firstTagString(exifData, exif.FocalLength)
	return nil
}

func setEXIFDefaults(rec Record) {
	for _, field := range []string{
		"Date and Time", "Camera Model", "Camera Make", "Software",
		"GPS Coordinates", "Exposure Time", "F-Stop", "ISO Speed", "Focal Length",
	} {
		rec[field] = NotAvailable
	}
}

// firstTagString returns the first present tag's value, or the absence
// sentinel when none of the names resolve.
func firstTagString(exifData *exif.Exif, names ...exif.FieldName) string {
	for _, name := range names {
		tag, err := exifData.Get(name)
		if err != nil || tag == nil {
			continue
		}
		if s := tagString(tag); s != "" {
			return s
		}
	}
	return NotAvailable
}

// tagString renders a tag value without the quoting goexif applies to
// ASCII tags, trimming null terminators.
func tagString(tag *tiff.Tag) string {
	if s, err := tag.StringVal(); err == nil {
		return strings.TrimRight(strings.TrimSpace(s), "\x00")
	}
	return strings.Trim(tag.String(), `"`)
}

func readImageConfig(path string, rec Record) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("failed to decode image config: %w", err)
	}

	rec["Image Format"] = strings.ToUpper(format)
	rec["Image Mode"] = colorModeString(cfg.ColorModel)
	rec["Image Width"] = cfg.Width
	rec["Image Height"] = cfg.Height
	rec["Image Size"] = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	rec["Megapixels"] = math.Round(float64(cfg.Width)*float64(cfg.Height)/1e6*100) / 100
	return nil
}

func colorModeString(model color.Model) string {
	switch model {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	case color.AlphaModel:
		return "Alpha"
	default:
		if _, ok := model.(color.Palette); ok {
			return "Paletted"
		}
		return "Unknown"
	}
}
