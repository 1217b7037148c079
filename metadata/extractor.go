package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
	"github.com/dustin/go-humanize"

	"github.com/dlages/filescope/checksum"
	"github.com/dlages/filescope/filetype"
)

// ErrNotFound is returned by Extract for a path that does not exist on
// disk. It is the only failure that escapes an extraction; everything
// else is captured into explanatory field values.
var ErrNotFound = errors.New("file does not exist")

// Extractor turns a file path into a Record. It dispatches on the file's
// Category to exactly one format-specific sub-extractor and merges the
// result with baseline file-system attributes and checksums.
type Extractor struct {
	caps Capabilities
}

// NewExtractor builds an extractor with an explicit capability set.
func NewExtractor(caps Capabilities) *Extractor {
	return &Extractor{caps: caps}
}

// Default builds an extractor with every capability this build carries.
func Default() *Extractor {
	return NewExtractor(DefaultCapabilities())
}

// categoryHandler runs a format-specific sub-extractor, merging its
// fields directly into rec. Handlers must capture their own failures as
// explanatory fields and never panic past this table.
type categoryHandler func(e *Extractor, path string, rec Record)

var categoryHandlers = map[filetype.Category]categoryHandler{
	filetype.CategoryImages:    (*Extractor).extractImage,
	filetype.CategoryAudio:     (*Extractor).extractAudio,
	filetype.CategoryVideo:     (*Extractor).extractVideo,
	filetype.CategoryDocuments: (*Extractor).extractDocument,
	filetype.CategoryArchives:  (*Extractor).extractArchive,
}

// Extract produces the metadata record for path. If the path does not
// exist the returned record contains only an Error field and the error
// is ErrNotFound; for every other internal failure the affected field is
// set to an explanatory string and extraction continues.
func (e *Extractor) Extract(path string, computeChecksums bool) (Record, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Record{FieldError: "File does not exist"}, ErrNotFound
	}

	rec := e.baseline(path)

	if computeChecksums {
		e.addChecksums(rec, path)
	}

	if handler, ok := categoryHandlers[filetype.Classify(path)]; ok {
		handler(e, path, rec)
	}

	return rec, nil
}

// baseline populates the file-system attributes every record carries.
// A stat failure for an individual field sets that field to an
// explanatory string instead of aborting the extraction.
func (e *Extractor) baseline(path string) Record {
	rec := Record{}

	rec[FieldFileName] = filepath.Base(path)
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	rec[FieldFilePath] = abs

	info, statErr := os.Stat(path)
	if statErr != nil {
		rec[FieldFileSize] = fmt.Sprintf("Error reading size: %v", statErr)
		rec[FieldFileSizeFormatted] = NotAvailable
	} else {
		rec[FieldFileSize] = info.Size()
		rec[FieldFileSizeFormatted] = humanize.Bytes(uint64(info.Size()))
	}

	created, modified, accessed := fileTimestamps(path, info)
	rec[FieldCreationDate] = created
	rec[FieldModifiedDate] = modified
	rec[FieldAccessedDate] = accessed

	rec[FieldFileExtension] = filetype.Extension(path)
	rec[FieldCategory] = string(filetype.Classify(path))

	if e.caps.SniffMIME != nil {
		rec[FieldMIMEType] = e.caps.SniffMIME(path)
	} else {
		rec[FieldMIMEType] = "application/octet-stream"
	}

	return rec
}

// fileTimestamps resolves creation, modification and access times. The
// platform may lack a birth time, in which case the change time and
// finally the modification time stand in for it.
func fileTimestamps(path string, info os.FileInfo) (created, modified, accessed string) {
	ts, err := times.Stat(path)
	if err != nil {
		if info == nil {
			msg := fmt.Sprintf("Error reading timestamps: %v", err)
			return msg, msg, msg
		}
		m := info.ModTime().Format(TimestampLayout)
		return m, m, m
	}

	modified = ts.ModTime().Format(TimestampLayout)
	accessed = ts.AccessTime().Format(TimestampLayout)

	switch {
	case ts.HasBirthTime():
		created = ts.BirthTime().Format(TimestampLayout)
	case ts.HasChangeTime():
		created = ts.ChangeTime().Format(TimestampLayout)
	default:
		created = modified
	}
	return created, modified, accessed
}

// addChecksums computes the three digests. Each failure is caught
// independently; the remaining algorithms are still attempted.
func (e *Extractor) addChecksums(rec Record, path string) {
	digests := []struct {
		field     string
		algorithm string
	}{
		{FieldChecksumMD5, checksum.MD5},
		{FieldChecksumSHA1, checksum.SHA1},
		{FieldChecksumSHA256, checksum.SHA256},
	}

	for _, d := range digests {
		sum, err := checksum.File(path, d.algorithm)
		if err != nil {
			rec[d.field] = "Checksum calculation failed"
			continue
		}
		rec[d.field] = sum
	}
}
