package metadata

import "github.com/dlages/filescope/filetype"

// Capabilities injects the optional format-decoding functions into the
// extractor. A nil field means the capability is absent; the matching
// sub-extractor then degrades to a single explanatory field instead of
// failing. Tests exercise capability gaps by constructing an Extractor
// with selected fields left nil.
type Capabilities struct {
	// SniffMIME inspects magic bytes and returns a MIME type string.
	// Implementations must not fail; the extractor falls back to
	// application/octet-stream when nil.
	SniffMIME func(path string) string

	// AudioTags reads container tags (title, artist, raw tag map).
	AudioTags func(path string) (Record, error)

	// AudioStreamInfo reads technical stream properties (duration,
	// bitrate, sample rate, channels) where the format allows it.
	AudioStreamInfo func(path string) (Record, error)

	// PDFDocInfo reads page count, document info dictionary and the
	// format header of a PDF.
	PDFDocInfo func(path string) (Record, error)
}

// DefaultCapabilities wires every decoder this build carries.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		SniffMIME:       filetype.SniffMIME,
		AudioTags:       readAudioTags,
		AudioStreamInfo: readAudioStreamInfo,
		PDFDocInfo:      readPDFDocInfo,
	}
}
