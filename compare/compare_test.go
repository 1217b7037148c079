package compare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlages/filescope/metadata"
)

func TestRecordsPartition(t *testing.T) {
	left := metadata.Record{
		metadata.FieldFileName: "a.txt",
		"Shared Same":          "value",
		"Shared Diff":          "left-value",
		"Left Only":            "l",
	}
	right := metadata.Record{
		metadata.FieldFileName: "b.txt",
		"Shared Same":          "value",
		"Shared Diff":          "right-value",
		"Right Only":           "r",
	}

	res := Records(left, right)

	assert.Equal(t, "a.txt", res.LeftName)
	assert.Equal(t, "b.txt", res.RightName)

	assert.Equal(t, map[string]string{"Shared Same": "value"}, res.Matching)
	assert.Equal(t, map[string]string{"Left Only": "l"}, res.OnlyLeft)
	assert.Equal(t, map[string]string{"Right Only": "r"}, res.OnlyRight)
	assert.Equal(t, map[string]ValuePair{
		metadata.FieldFileName: {Left: "a.txt", Right: "b.txt"},
		"Shared Diff":          {Left: "left-value", Right: "right-value"},
	}, res.Differing)
}

// every key of either record lands in exactly one partition
func TestRecordsPartitionIsComplete(t *testing.T) {
	left := metadata.Record{"a": 1, "b": "x", "c": true, "d": 2.5}
	right := metadata.Record{"b": "x", "c": false, "e": "only"}

	res := Records(left, right)

	seen := map[string]int{}
	for k := range res.Matching {
		seen[k]++
	}
	for k := range res.Differing {
		seen[k]++
	}
	for k := range res.OnlyLeft {
		seen[k]++
	}
	for k := range res.OnlyRight {
		seen[k]++
	}

	union := map[string]bool{}
	for k := range left {
		union[k] = true
	}
	for k := range right {
		union[k] = true
	}

	assert.Len(t, seen, len(union))
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %s in multiple partitions", k)
	}
}

func TestRecordsValueNormalization(t *testing.T) {
	// 42 as int and int64 stringify identically and must match
	left := metadata.Record{"n": 42}
	right := metadata.Record{"n": int64(42)}

	res := Records(left, right)
	assert.Equal(t, map[string]string{"n": "42"}, res.Matching)
	assert.Empty(t, res.Differing)
}

func TestRecordsEmpty(t *testing.T) {
	res := Records(metadata.Record{}, metadata.Record{})
	assert.Empty(t, res.Matching)
	assert.Empty(t, res.Differing)
	assert.Empty(t, res.OnlyLeft)
	assert.Empty(t, res.OnlyRight)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	pathB := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(pathA, []byte("same content"), 0644))
	require.NoError(t, os.WriteFile(pathB, []byte("same content"), 0644))

	res := Files(metadata.Default(), pathA, pathB, true)

	assert.Equal(t, "a.txt", res.LeftName)
	assert.Equal(t, "b.txt", res.RightName)

	// identical content: checksums match, names and paths differ
	assert.Contains(t, res.Matching, metadata.FieldChecksumSHA256)
	assert.Contains(t, res.Matching, metadata.FieldFileSize)
	assert.Contains(t, res.Differing, metadata.FieldFileName)
	assert.Contains(t, res.Differing, metadata.FieldFilePath)
}

func TestFilesMissingSide(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "exists.txt")
	require.NoError(t, os.WriteFile(pathA, []byte("x"), 0644))

	res := Files(metadata.Default(), pathA, filepath.Join(dir, "missing.txt"), false)

	// the missing side is a bare error record; everything else is left-only
	assert.Equal(t, map[string]string{metadata.FieldError: "File does not exist"}, res.OnlyRight)
	assert.Contains(t, res.OnlyLeft, metadata.FieldFileName)
	assert.Empty(t, res.Matching)
}
