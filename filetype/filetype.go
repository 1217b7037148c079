package filetype

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Category is the coarse classification that selects which metadata
// sub-extractor runs for a file.
type Category string

const (
	CategoryImages    Category = "Images"
	CategoryDocuments Category = "Documents"
	CategoryAudio     Category = "Audio"
	CategoryVideo     Category = "Video"
	CategoryArchives  Category = "Archives"
	CategoryOther     Category = "Other"
)

const fallbackMIME = "application/octet-stream"

var categoryByExtension = map[string]Category{
	".jpg":  CategoryImages,
	".jpeg": CategoryImages,
	".png":  CategoryImages,
	".gif":  CategoryImages,
	".bmp":  CategoryImages,
	".tiff": CategoryImages,
	".webp": CategoryImages,

	".pdf":  CategoryDocuments,
	".doc":  CategoryDocuments,
	".docx": CategoryDocuments,
	".txt":  CategoryDocuments,
	".rtf":  CategoryDocuments,
	".odt":  CategoryDocuments,
	".csv":  CategoryDocuments,
	".log":  CategoryDocuments,

	".mp3":  CategoryAudio,
	".wav":  CategoryAudio,
	".flac": CategoryAudio,
	".aac":  CategoryAudio,
	".ogg":  CategoryAudio,
	".m4a":  CategoryAudio,

	".mp4": CategoryVideo,
	".avi": CategoryVideo,
	".mkv": CategoryVideo,
	".mov": CategoryVideo,
	".wmv": CategoryVideo,
	".flv": CategoryVideo,

	".zip": CategoryArchives,
	".rar": CategoryArchives,
	".7z":  CategoryArchives,
	".tar": CategoryArchives,
	".gz":  CategoryArchives,
}

// Extension returns the lowercased extension of path, including the dot.
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Classify maps a file path to its Category by extension. Unknown
// extensions classify as Other. No I/O is performed.
func Classify(path string) Category {
	if cat, ok := categoryByExtension[Extension(path)]; ok {
		return cat
	}
	return CategoryOther
}

// SniffMIME inspects the file's magic bytes and returns its MIME type.
// It never fails: any error degrades to application/octet-stream.
func SniffMIME(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil || m == nil {
		return fallbackMIME
	}
	return m.String()
}
