package metadata

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlages/filescope/filetype"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestExtractMissingFile(t *testing.T) {
	e := Default()
	rec, err := e.Extract(filepath.Join(t.TempDir(), "missing.txt"), false)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, Record{FieldError: "File does not exist"}, rec)
}

func TestExtractBaseline(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("one two three\nfour five\n"))

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	for _, field := range BaselineFields() {
		assert.Contains(t, rec, field, "baseline field %s", field)
	}

	assert.Equal(t, "notes.txt", rec[FieldFileName])
	assert.Equal(t, int64(24), rec[FieldFileSize])
	assert.Equal(t, ".txt", rec[FieldFileExtension])
	assert.Equal(t, string(filetype.CategoryDocuments), rec[FieldCategory])
	assert.Contains(t, rec[FieldMIMEType], "text/plain")

	abs, ok := rec.StringValue(FieldFilePath)
	require.True(t, ok)
	assert.True(t, filepath.IsAbs(abs))

	// no checksums requested
	assert.NotContains(t, rec, FieldChecksumMD5)
	assert.NotContains(t, rec, FieldChecksumSHA1)
	assert.NotContains(t, rec, FieldChecksumSHA256)
}

func TestExtractTextStatistics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stats.txt", []byte("one two three\nfour five\n"))

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	assert.Equal(t, 3, rec["Line Count"]) // trailing newline opens an empty third line
	assert.Equal(t, 5, rec["Word Count"])
	assert.Equal(t, 24, rec["Character Count"])
}

func TestExtractWithChecksums(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sums.txt", []byte("hello world"))

	e := Default()
	rec, err := e.Extract(path, true)
	require.NoError(t, err)

	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", rec[FieldChecksumMD5])
	assert.Equal(t, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", rec[FieldChecksumSHA1])
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", rec[FieldChecksumSHA256])
}

func TestExtractImageWithoutEXIF(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 20, 10))))
	path := writeFile(t, dir, "plain.png", buf.Bytes())

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	// PNG carries no EXIF segment; friendly fields degrade to the sentinel
	assert.Equal(t, NotAvailable, rec["Camera Make"])
	assert.Equal(t, NotAvailable, rec["GPS Coordinates"])
	assert.Equal(t, NotAvailable, rec["Date and Time"])

	assert.Equal(t, "PNG", rec["Image Format"])
	assert.Equal(t, 20, rec["Image Width"])
	assert.Equal(t, 10, rec["Image Height"])
	assert.Equal(t, "20x10", rec["Image Size"])
	assert.Equal(t, "NRGBA", rec["Image Mode"])
	assert.Equal(t, 0.0, rec["Megapixels"])
}

func TestExtractAudioCapabilityGap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "song.mp3", []byte("not really audio"))

	e := NewExtractor(Capabilities{SniffMIME: filetype.SniffMIME})
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	assert.Equal(t, "Audio tag support not available", rec["Audio Data"])
}

func TestExtractZipArchive(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("docs/readme.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("archived content"))
	require.NoError(t, err)
	f, err = zw.Create("data.bin")
	require.NoError(t, err)
	_, err = f.Write(bytes.Repeat([]byte{0x42}, 128))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, dir, "bundle.zip", buf.Bytes())

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	assert.Equal(t, "Archive", rec["Media Type"])
	assert.Equal(t, 2, rec["Entry Count"])
	assert.NotContains(t, rec, "Archive Data")
}

func TestExtractVideo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clip.mp4", []byte("stub"))

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	assert.Equal(t, "Video", rec["Media Type"])
	assert.Contains(t, rec, "File Description")
}

func TestExtractOtherCategory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "binary.xyz", []byte{0x00, 0x01})

	e := Default()
	rec, err := e.Extract(path, false)
	require.NoError(t, err)

	assert.Equal(t, string(filetype.CategoryOther), rec[FieldCategory])
	// no category handler ran; only baseline fields present
	assert.Len(t, rec, len(BaselineFields()))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:05", formatDuration(5.4))
	assert.Equal(t, "3:27", formatDuration(207))
	assert.Equal(t, "1:00:01", formatDuration(3601))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "plain", ValueString("plain"))
	assert.Equal(t, "42", ValueString(42))
	assert.Equal(t, "42", ValueString(int64(42)))
	assert.Equal(t, "2.5", ValueString(2.5))
	assert.Equal(t, "true", ValueString(true))
}

func TestRecordClone(t *testing.T) {
	rec := Record{FieldFileName: "a.txt", "Line Count": 3}
	clone := rec.Clone()
	clone["Line Count"] = 99
	assert.Equal(t, 3, rec["Line Count"])
}
