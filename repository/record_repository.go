package repository

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/dlages/filescope/metadata"
	"github.com/dlages/filescope/models"
)

// RecordRepository handles database operations for catalogued metadata
// records.
type RecordRepository struct {
	DB *gorm.DB
}

// NewRecordRepository creates a new instance of RecordRepository
func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

// Save upserts the catalog row for a record, keyed by file path. The
// typed columns are derived from the record's baseline fields; the full
// record is stored as JSON.
func (r *RecordRepository) Save(rec metadata.Record, contentScore string) (*models.FileRecord, error) {
	path, ok := rec.StringValue(metadata.FieldFilePath)
	if !ok || path == "" {
		return nil, fmt.Errorf("record has no file path, cannot catalog")
	}
	cleanPath := filepath.ToSlash(path)

	fields, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record for %s: %w", cleanPath, err)
	}

	row := models.FileRecord{
		Path:        cleanPath,
		Fields:      string(fields),
		ExtractedAt: time.Now().Unix(),
	}
	row.Name, _ = rec.StringValue(metadata.FieldFileName)
	row.Extension, _ = rec.StringValue(metadata.FieldFileExtension)
	row.Category, _ = rec.StringValue(metadata.FieldCategory)
	row.MimeType, _ = rec.StringValue(metadata.FieldMIMEType)
	row.ChecksumSHA256, _ = rec.StringValue(metadata.FieldChecksumSHA256)
	row.ContentScore = contentScore
	if size, ok := rec[metadata.FieldFileSize].(int64); ok {
		row.SizeBytes = size
	}

	if err := r.DB.Save(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to save catalog record for %s: %w", cleanPath, err)
	}
	return &row, nil
}

// GetByPath retrieves a catalogued record by its file path
func (r *RecordRepository) GetByPath(path string) (*models.FileRecord, error) {
	cleanPath := filepath.ToSlash(path)
	var row models.FileRecord
	err := r.DB.Where("path = ?", cleanPath).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get catalog record for %s: %w", cleanPath, err)
	}
	return &row, nil
}

// Record decodes the stored JSON back into a metadata record.
func (r *RecordRepository) Record(row *models.FileRecord) (metadata.Record, error) {
	var rec metadata.Record
	if err := json.Unmarshal([]byte(row.Fields), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode catalog record for %s: %w", row.Path, err)
	}
	return rec, nil
}

// ListAll returns every catalogued record, most recently extracted first
func (r *RecordRepository) ListAll(limit, offset int) ([]models.FileRecord, error) {
	var rows []models.FileRecord
	q := r.DB.Order("extracted_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list catalog records: %w", err)
	}
	return rows, nil
}

// FindByContentScore returns every catalogued record whose contents
// hash to the given score, regardless of path. Useful for spotting the
// same file under different names.
func (r *RecordRepository) FindByContentScore(score string) ([]models.FileRecord, error) {
	var rows []models.FileRecord
	err := r.DB.Where("content_score = ?", score).Order("path ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find records by content score: %w", err)
	}
	return rows, nil
}

// DeleteByPath soft-deletes the catalog row for a path
func (r *RecordRepository) DeleteByPath(path string) error {
	cleanPath := filepath.ToSlash(path)
	result := r.DB.Where("path = ?", cleanPath).Delete(&models.FileRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete catalog record for %s: %w", cleanPath, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchQuery selects catalog rows by their typed columns. Zero values
// mean "any"; MinSize/MaxSize of 0 are ignored.
type SearchQuery struct {
	NameContains string `json:"name_contains"`
	Extension    string `json:"extension"`
	Category     string `json:"category"`
	MimeType     string `json:"mime_type"`
	MinSize      int64  `json:"min_size"`
	MaxSize      int64  `json:"max_size"`
	Limit        uint64 `json:"limit"`
}

// Search builds the catalog query with squirrel and runs it through
// GORM's underlying connection. All criteria are ANDed.
func (r *RecordRepository) Search(q SearchQuery) ([]models.FileRecord, error) {
	builder := sq.Select("path", "name", "extension", "category", "mime_type", "size_bytes", "content_score", "checksum_sha256", "fields", "extracted_at").
		From("file_records").
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("extracted_at DESC")

	if q.NameContains != "" {
		builder = builder.Where(sq.Like{"name": "%" + q.NameContains + "%"})
	}
	if q.Extension != "" {
		builder = builder.Where(sq.Eq{"extension": q.Extension})
	}
	if q.Category != "" {
		builder = builder.Where(sq.Eq{"category": q.Category})
	}
	if q.MimeType != "" {
		builder = builder.Where(sq.Eq{"mime_type": q.MimeType})
	}
	if q.MinSize > 0 {
		builder = builder.Where(sq.GtOrEq{"size_bytes": q.MinSize})
	}
	if q.MaxSize > 0 {
		builder = builder.Where(sq.LtOrEq{"size_bytes": q.MaxSize})
	}
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog search query: %w", err)
	}

	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dbRows, err := sqlDB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer dbRows.Close()

	var rows []models.FileRecord
	for dbRows.Next() {
		var row models.FileRecord
		if err := dbRows.Scan(&row.Path, &row.Name, &row.Extension, &row.Category,
			&row.MimeType, &row.SizeBytes, &row.ContentScore, &row.ChecksumSHA256,
			&row.Fields, &row.ExtractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("catalog search iteration failed: %w", err)
	}
	return rows, nil
}
