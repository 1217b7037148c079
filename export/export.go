// Package export serializes metadata records to deterministic,
// byte-for-byte reproducible files. Fields are always ordered by name;
// multi-record collections are ordered by natural sort of file name.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/facette/natsort"

	"github.com/dlages/filescope/metadata"
)

// Format selects the serialization produced by Records.
type Format string

const (
	FormatTXT     Format = "txt"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatXML     Format = "xml"
	FormatHTML    Format = "html"
	FormatParquet Format = "parquet"
)

// ErrUnsupportedFormat is returned for format names outside the set
// above.
type ErrUnsupportedFormat struct {
	Format Format
}

func (e ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// Record serializes a single record.
func Record(rec metadata.Record, path string, format Format) error {
	return Records([]metadata.Record{rec}, path, format)
}

// Records serializes a collection of records to path in the given
// format.
func Records(records []metadata.Record, path string, format Format) error {
	ordered := orderByFileName(records)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatTXT:
		data, err = marshalTXT(ordered)
	case FormatJSON:
		data, err = marshalJSON(ordered)
	case FormatCSV:
		data, err = marshalCSV(ordered)
	case FormatXML:
		data, err = marshalXML(ordered)
	case FormatHTML:
		data, err = marshalHTML(ordered)
	case FormatParquet:
		return writeParquet(ordered, path)
	default:
		return ErrUnsupportedFormat{Format: format}
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export: failed to write %s: %w", path, err)
	}
	return nil
}

// orderByFileName sorts records by natural order of their file name so
// "img2" precedes "img10". Records lacking a file name sort first by
// their empty key; ties keep input order via an index suffix.
func orderByFileName(records []metadata.Record) []metadata.Record {
	keys := make([]string, len(records))
	byKey := make(map[string]metadata.Record, len(records))
	for i, rec := range records {
		name, _ := rec.StringValue(metadata.FieldFileName)
		key := fmt.Sprintf("%s\x00%08d", name, i)
		keys[i] = key
		byKey[key] = rec
	}
	natsort.Sort(keys)

	out := make([]metadata.Record, len(records))
	for i, key := range keys {
		out[i] = byKey[key]
	}
	return out
}

func marshalTXT(records []metadata.Record) ([]byte, error) {
	var b strings.Builder
	for i, rec := range records {
		if len(records) > 1 {
			fmt.Fprintf(&b, "===== File %d =====\n", i+1)
		}
		for _, key := range rec.SortedKeys() {
			value, _ := rec.StringValue(key)
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
		if len(records) > 1 {
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

func marshalJSON(records []metadata.Record) ([]byte, error) {
	// encoding/json sorts map keys, which gives the deterministic field
	// ordering for free
	var payload any = records
	if len(records) == 1 {
		payload = records[0]
	}
	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("export: json marshal failed: %w", err)
	}
	return append(data, '\n'), nil
}

func marshalCSV(records []metadata.Record) ([]byte, error) {
	fieldSet := map[string]bool{}
	for _, rec := range records {
		for key := range rec {
			fieldSet[key] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for key := range fieldSet {
		fields = append(fields, key)
	}
	sort.Strings(fields)

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("export: csv header failed: %w", err)
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, key := range fields {
			row[i], _ = rec.StringValue(key)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: csv row failed: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: csv flush failed: %w", err)
	}
	return []byte(b.String()), nil
}

func marshalXML(records []metadata.Record) ([]byte, error) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if len(records) == 1 {
		writeXMLRecord(&b, records[0], "Metadata", "", 0)
	} else {
		b.WriteString("<Metadata_Collection>\n")
		for i, rec := range records {
			writeXMLRecord(&b, rec, "File", fmt.Sprintf(` id="%d"`, i+1), 1)
		}
		b.WriteString("</Metadata_Collection>\n")
	}
	return []byte(b.String()), nil
}

func writeXMLRecord(b *strings.Builder, rec metadata.Record, element, attrs string, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s<%s%s>\n", indent, element, attrs)
	for _, key := range rec.SortedKeys() {
		value, _ := rec.StringValue(key)
		name := xmlElementName(key)
		fmt.Fprintf(b, "%s  <%s>%s</%s>\n", indent, name, xmlEscape(value), name)
	}
	fmt.Fprintf(b, "%s</%s>\n", indent, element)
}

// xmlElementName derives a valid element name from a field name:
// spaces become underscores and other invalid characters are dropped.
func xmlElementName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

func marshalHTML(records []metadata.Record) ([]byte, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<title>Metadata Report</title>\n")
	b.WriteString("<style>\n")
	b.WriteString("body { font-family: Arial, sans-serif; margin: 20px; }\n")
	b.WriteString("table { border-collapse: collapse; width: 100%; }\n")
	b.WriteString("th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }\n")
	b.WriteString("th { background-color: #f2f2f2; }\n")
	b.WriteString("tr:nth-child(even) { background-color: #f9f9f9; }\n")
	b.WriteString("h1 { color: #333; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString("<h1>Metadata Report</h1>\n")

	for i, rec := range records {
		if len(records) > 1 {
			name, ok := rec.StringValue(metadata.FieldFileName)
			if !ok {
				name = fmt.Sprintf("File %d", i+1)
			}
			fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(name))
		}
		b.WriteString("<table>\n<tr><th>Property</th><th>Value</th></tr>\n")
		for _, key := range rec.SortedKeys() {
			value, _ := rec.StringValue(key)
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(key), html.EscapeString(value))
		}
		b.WriteString("</table>\n")
		if len(records) > 1 {
			b.WriteString("<br>\n")
		}
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}
