package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestFileKnownDigests(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))

	t.Run("md5", func(t *testing.T) {
		sum, err := File(path, MD5)
		require.NoError(t, err)
		assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)
	})

	t.Run("sha1", func(t *testing.T) {
		sum, err := File(path, SHA1)
		require.NoError(t, err)
		assert.Equal(t, "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", sum)
	})

	t.Run("sha256", func(t *testing.T) {
		sum, err := File(path, SHA256)
		require.NoError(t, err)
		assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sum)
	})
}

func TestFileAlgorithmCaseInsensitive(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))

	upper, err := File(path, "SHA256")
	require.NoError(t, err)
	lower, err := File(path, "sha256")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestFileDeterministic(t *testing.T) {
	path := writeTempFile(t, []byte("some stable content"))

	first, err := File(path, SHA256)
	require.NoError(t, err)
	second, err := File(path, SHA256)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileSingleBitChange(t *testing.T) {
	content := []byte("avalanche test content")
	pathA := writeTempFile(t, content)

	flipped := append([]byte(nil), content...)
	flipped[0] ^= 0x01
	pathB := writeTempFile(t, flipped)

	for _, alg := range []string{MD5, SHA1, SHA256} {
		sumA, err := File(pathA, alg)
		require.NoError(t, err)
		sumB, err := File(pathB, alg)
		require.NoError(t, err)
		assert.NotEqual(t, sumA, sumB, "algorithm %s", alg)
	}
}

func TestFileEmpty(t *testing.T) {
	path := writeTempFile(t, nil)

	sum, err := File(path, MD5)
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", sum)
}

func TestFileUnsupportedAlgorithm(t *testing.T) {
	path := writeTempFile(t, []byte("x"))

	_, err := File(path, "crc32")
	require.Error(t, err)
	var unsupported ErrUnsupportedAlgorithm
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "crc32", unsupported.Algorithm)
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.bin"), SHA256)
	assert.Error(t, err)
}

func TestContentScore(t *testing.T) {
	pathA := writeTempFile(t, []byte("identical bytes"))
	pathB := writeTempFile(t, []byte("identical bytes"))
	pathC := writeTempFile(t, []byte("different bytes"))

	scoreA, err := ContentScore(pathA)
	require.NoError(t, err)
	scoreB, err := ContentScore(pathB)
	require.NoError(t, err)
	scoreC, err := ContentScore(pathC)
	require.NoError(t, err)

	assert.Equal(t, scoreA, scoreB)
	assert.NotEqual(t, scoreA, scoreC)
	assert.Len(t, scoreA, 64) // 256-bit hex
}
