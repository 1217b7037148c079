package metadata

import (
	"fmt"
	"sort"
	"strconv"
)

// Record is the uniform key-value metadata model produced by the
// extractor. Values are strings, numbers or booleans; keys from raw
// container tags are namespaced by source (e.g. "EXIF: ...", "Tag: ...",
// "PDF: ..."). Records are created fresh per extraction and are never
// mutated by comparison or filtering.
type Record map[string]any

// Baseline field names. Every record produced for a readable file
// contains all of these; category-specific fields are additive.
const (
	FieldFileName          = "File Name"
	FieldFilePath          = "File Path"
	FieldFileSize          = "File Size"
	FieldFileSizeFormatted = "File Size (Formatted)"
	FieldCreationDate      = "Creation Date"
	FieldModifiedDate      = "Modified Date"
	FieldAccessedDate      = "Accessed Date"
	FieldFileExtension     = "File Extension"
	FieldCategory          = "File Type Category"
	FieldMIMEType          = "MIME Type"
	FieldChecksumMD5       = "Checksum (MD5)"
	FieldChecksumSHA1      = "Checksum (SHA1)"
	FieldChecksumSHA256    = "Checksum (SHA256)"

	// FieldError is the only field of a record for a nonexistent path.
	FieldError = "Error"
)

// NotAvailable is the sentinel value for absent optional metadata.
const NotAvailable = "Not Available"

// TimestampLayout formats all file timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// BaselineFields returns the field names guaranteed present for every
// readable file, excluding checksums (which depend on the request).
func BaselineFields() []string {
	return []string{
		FieldFileName,
		FieldFilePath,
		FieldFileSize,
		FieldFileSizeFormatted,
		FieldCreationDate,
		FieldModifiedDate,
		FieldAccessedDate,
		FieldFileExtension,
		FieldCategory,
		FieldMIMEType,
	}
}

// SortedKeys returns the record's field names in lexicographic order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StringValue returns the stringified value of a field and whether the
// field is present.
func (r Record) StringValue(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	return ValueString(v), true
}

// ValueString normalizes a record value to its string form. Comparison
// and export both rely on this being stable for a given value.
func ValueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
