package models

import "gorm.io/gorm"

// FileRecord is the catalog row for one extracted metadata record. The
// baseline attributes are typed columns for querying; the full record,
// category-specific fields included, is kept as a JSON blob.
type FileRecord struct {
	Path string `gorm:"primaryKey" json:"path"` // absolute path at extraction time

	Name      string `gorm:"not null;index" json:"name"`
	Extension string `gorm:"index" json:"extension"`
	Category  string `gorm:"index" json:"category"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`

	// ContentScore is the BLAKE2b-256 digest of the file contents,
	// used to find identical content under different paths.
	ContentScore string `gorm:"index" json:"content_score,omitempty"`

	ChecksumSHA256 string `json:"checksum_sha256,omitempty"`

	// Fields holds the complete metadata record as JSON.
	Fields string `gorm:"type:text;not null" json:"fields"`

	ExtractedAt int64 `gorm:"not null;index" json:"extracted_at"` // Unix timestamp

	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (FileRecord) TableName() string {
	return "file_records"
}
