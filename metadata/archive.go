package metadata

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"

	"github.com/dlages/filescope/filetype"
)

// extractArchive lists entry statistics for zip containers. Other
// archive formats carry only the media-type marker; their entry tables
// need format-specific readers this build does not link.
func (e *Extractor) extractArchive(path string, rec Record) {
	rec["Media Type"] = "Archive"

	if filetype.Extension(path) != ".zip" {
		return
	}
	if err := zipStatistics(path, rec); err != nil {
		rec["Archive Data"] = fmt.Sprintf("Error reading archive: %v", err)
	}
}

func zipStatistics(path string, rec Record) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	var files, dirs int
	var uncompressed, compressed uint64
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			dirs++
			continue
		}
		files++
		uncompressed += entry.UncompressedSize64
		compressed += entry.CompressedSize64
	}

	rec["Entry Count"] = files
	rec["Directory Count"] = dirs
	rec["Uncompressed Size"] = humanize.Bytes(uncompressed)
	rec["Compressed Size"] = humanize.Bytes(compressed)
	return nil
}
