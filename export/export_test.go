package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlages/filescope/metadata"
)

func sampleRecord(name string, size int64) metadata.Record {
	return metadata.Record{
		metadata.FieldFileName: name,
		metadata.FieldFileSize: size,
		metadata.FieldCategory: "Documents",
	}
}

func exportToString(t *testing.T, records []metadata.Record, format Format) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out."+string(format))
	require.NoError(t, Records(records, path, format))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	err := Records([]metadata.Record{sampleRecord("a.txt", 1)}, path, Format("yaml"))
	require.Error(t, err)
	var unsupported ErrUnsupportedFormat
	assert.ErrorAs(t, err, &unsupported)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be written for a bad format")
}

func TestTXT(t *testing.T) {
	t.Run("single record has no section headers", func(t *testing.T) {
		out := exportToString(t, []metadata.Record{sampleRecord("a.txt", 10)}, FormatTXT)
		assert.NotContains(t, out, "=====")
		assert.Contains(t, out, "File Name: a.txt\n")
		assert.Contains(t, out, "File Size: 10\n")
	})

	t.Run("multiple records are sectioned", func(t *testing.T) {
		records := []metadata.Record{sampleRecord("a.txt", 1), sampleRecord("b.txt", 2)}
		out := exportToString(t, records, FormatTXT)
		assert.Contains(t, out, "===== File 1 =====")
		assert.Contains(t, out, "===== File 2 =====")
	})

	t.Run("fields are sorted by name", func(t *testing.T) {
		out := exportToString(t, []metadata.Record{sampleRecord("a.txt", 1)}, FormatTXT)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, "File Name: a.txt", lines[0])
		assert.Equal(t, "File Size: 1", lines[1])
		assert.Equal(t, "File Type Category: Documents", lines[2])
	})
}

func TestJSON(t *testing.T) {
	t.Run("single record is unwrapped", func(t *testing.T) {
		out := exportToString(t, []metadata.Record{sampleRecord("a.txt", 10)}, FormatJSON)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "a.txt", decoded[metadata.FieldFileName])
	})

	t.Run("multiple records are an array", func(t *testing.T) {
		records := []metadata.Record{sampleRecord("a.txt", 1), sampleRecord("b.txt", 2)}
		out := exportToString(t, records, FormatJSON)
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Len(t, decoded, 2)
	})
}

func TestCSV(t *testing.T) {
	records := []metadata.Record{
		sampleRecord("a.txt", 1),
		{metadata.FieldFileName: "b.jpg", "Camera Make": "Canon"},
	}
	out := exportToString(t, records, FormatCSV)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// header is the sorted union of all fields
	assert.Equal(t, []string{"Camera Make", "File Name", "File Size", "File Type Category"}, rows[0])

	// absent fields are empty cells
	assert.Equal(t, "", rows[1][0]) // a.txt has no Camera Make
	assert.Equal(t, "a.txt", rows[1][1])
	assert.Equal(t, "Canon", rows[2][0])
}

func TestXML(t *testing.T) {
	t.Run("single record", func(t *testing.T) {
		out := exportToString(t, []metadata.Record{sampleRecord("a.txt", 1)}, FormatXML)
		assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
		assert.Contains(t, out, "<Metadata>")
		assert.Contains(t, out, "<File_Name>a.txt</File_Name>")
	})

	t.Run("collection wraps per-file elements", func(t *testing.T) {
		records := []metadata.Record{sampleRecord("a.txt", 1), sampleRecord("b.txt", 2)}
		out := exportToString(t, records, FormatXML)
		assert.Contains(t, out, "<Metadata_Collection>")
		assert.Contains(t, out, `<File id="1">`)
		assert.Contains(t, out, `<File id="2">`)
	})

	t.Run("values are escaped", func(t *testing.T) {
		rec := metadata.Record{metadata.FieldFileName: `a<&>"b.txt`}
		out := exportToString(t, []metadata.Record{rec}, FormatXML)
		assert.Contains(t, out, "a&lt;&amp;&gt;&quot;b.txt")
	})
}

func TestHTML(t *testing.T) {
	records := []metadata.Record{sampleRecord("a.txt", 1)}
	out := exportToString(t, records, FormatHTML)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<h1>Metadata Report</h1>")
	assert.Contains(t, out, "<td>File Name</td><td>a.txt</td>")
}

func TestDeterministicOutput(t *testing.T) {
	records := []metadata.Record{
		sampleRecord("img10.jpg", 3),
		sampleRecord("img2.jpg", 1),
		sampleRecord("img1.jpg", 2),
	}

	for _, format := range []Format{FormatTXT, FormatJSON, FormatCSV, FormatXML, FormatHTML} {
		t.Run(string(format), func(t *testing.T) {
			first := exportToString(t, records, format)
			second := exportToString(t, records, format)
			assert.Equal(t, first, second)
		})
	}
}

func TestNaturalRecordOrder(t *testing.T) {
	records := []metadata.Record{
		sampleRecord("img10.jpg", 3),
		sampleRecord("img2.jpg", 1),
	}
	out := exportToString(t, records, FormatTXT)

	// natural sort: img2 before img10
	assert.Less(t, strings.Index(out, "img2.jpg"), strings.Index(out, "img10.jpg"))
}

func TestParquetRoundTrip(t *testing.T) {
	records := []metadata.Record{
		{
			metadata.FieldFileName: "a.txt",
			metadata.FieldFilePath: "/data/a.txt",
			metadata.FieldFileSize: int64(42),
			metadata.FieldCategory: "Documents",
			"Line Count":           3,
		},
	}
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, Records(records, path, FormatParquet))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRecordSingle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.json")
	require.NoError(t, Record(sampleRecord("only.txt", 7), path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "only.txt", decoded[metadata.FieldFileName])
}
