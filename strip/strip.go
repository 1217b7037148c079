// Package strip produces metadata-free copies of files. The original is
// never modified; the copy is written next to it (or into destDir) as
// <base>_no_metadata<ext>.
package strip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/disintegration/imaging"

	"github.com/dlages/filescope/filetype"
)

// ErrUnsupported is returned for file types with no stripping strategy.
var ErrUnsupported = errors.New("unsupported file type for metadata removal")

var imageFormats = map[string]imaging.Format{
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".png":  imaging.PNG,
	".tif":  imaging.TIFF,
	".tiff": imaging.TIFF,
	".bmp":  imaging.BMP,
}

// RemoveMetadata writes a metadata-free copy of path and returns the
// copy's location. Images are re-encoded from decoded pixels, which
// drops EXIF and every other ancillary segment; MP3s have their ID3
// tags deleted. destDir optionally redirects the output; empty keeps it
// beside the original.
func RemoveMetadata(path, destDir string) (string, error) {
	ext := filetype.Extension(path)

	if _, ok := imageFormats[ext]; ok {
		return stripImage(path, destDir, ext)
	}
	if ext == ".mp3" {
		return stripMP3(path, destDir)
	}
	return "", ErrUnsupported
}

func outputPath(path, destDir string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	dir := filepath.Dir(path)
	if destDir != "" {
		dir = destDir
	}
	return filepath.Join(dir, base+"_no_metadata"+ext)
}

// stripImage decodes the pixels and re-encodes them into a fresh
// container carrying no metadata segments.
func stripImage(path, destDir, ext string) (string, error) {
	format, ok := imageFormats[ext]
	if !ok {
		return "", ErrUnsupported
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("strip: failed to open image %s: %w", path, err)
	}

	out := outputPath(path, destDir)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("strip: failed to create output directory: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("strip: failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(95)); err != nil {
		return "", fmt.Errorf("strip: failed to encode %s: %w", out, err)
	}
	return out, nil
}

// stripMP3 copies the file and deletes all ID3 frames from the copy.
func stripMP3(path, destDir string) (string, error) {
	out := outputPath(path, destDir)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("strip: failed to create output directory: %w", err)
	}
	if err := copyFile(path, out); err != nil {
		return "", err
	}

	tag, err := id3v2.Open(out, id3v2.Options{Parse: true})
	if err != nil {
		return "", fmt.Errorf("strip: failed to open ID3 tag in %s: %w", out, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	if err := tag.Save(); err != nil {
		return "", fmt.Errorf("strip: failed to save stripped tag: %w", err)
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("strip: failed to open %s: %w", src, err)
	}
	defer in.Close()

	outF, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("strip: failed to create %s: %w", dst, err)
	}
	defer outF.Close()

	if _, err := io.Copy(outF, in); err != nil {
		return fmt.Errorf("strip: failed to copy to %s: %w", dst, err)
	}
	return nil
}
