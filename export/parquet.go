package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/dlages/filescope/metadata"
)

// parquetRow flattens a record into typed columns for the fields every
// record carries; the full record travels alongside as JSON so no
// category-specific field is lost.
type parquetRow struct {
	Path      string `parquet:"path,zstd"`
	Name      string `parquet:"name,zstd"`
	Extension string `parquet:"extension,zstd"`
	Category  string `parquet:"category,zstd"`
	MimeType  string `parquet:"mime_type,zstd"`
	SizeBytes int64  `parquet:"size_bytes"`
	Modified  string `parquet:"modified,zstd"`
	SHA256    string `parquet:"sha256,zstd"`
	Fields    string `parquet:"fields,zstd"`
}

func writeParquet(records []metadata.Record, path string) error {
	rows := make([]parquetRow, 0, len(records))
	for _, rec := range records {
		row := parquetRow{}
		row.Path, _ = rec.StringValue(metadata.FieldFilePath)
		row.Name, _ = rec.StringValue(metadata.FieldFileName)
		row.Extension, _ = rec.StringValue(metadata.FieldFileExtension)
		row.Category, _ = rec.StringValue(metadata.FieldCategory)
		row.MimeType, _ = rec.StringValue(metadata.FieldMIMEType)
		row.Modified, _ = rec.StringValue(metadata.FieldModifiedDate)
		row.SHA256, _ = rec.StringValue(metadata.FieldChecksumSHA256)
		if size, ok := rec[metadata.FieldFileSize].(int64); ok {
			row.SizeBytes = size
		}

		fields, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("export: failed to encode record fields: %w", err)
		}
		row.Fields = string(fields)
		rows = append(rows, row)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[parquetRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("export: parquet write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: parquet close failed: %w", err)
	}
	return nil
}
