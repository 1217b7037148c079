package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names accepted by File. The set is fixed; anything else is
// rejected with ErrUnsupportedAlgorithm.
const (
	MD5    = "md5"
	SHA1   = "sha1"
	SHA256 = "sha256"
)

// ErrUnsupportedAlgorithm is returned for algorithm names outside the
// supported set.
type ErrUnsupportedAlgorithm struct {
	Algorithm string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("unsupported hash algorithm: %s", e.Algorithm)
}

const defaultBlockSize = 64 * 1024

func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, ErrUnsupportedAlgorithm{Algorithm: algorithm}
	}
}

// File computes the hex digest of the file at path using the named
// algorithm. The file is streamed in fixed-size blocks and is never held
// in memory as a whole.
func File(path, algorithm string) (string, error) {
	hasher, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum: failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, defaultBlockSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("checksum: failed to read %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ContentScore computes the BLAKE2b-256 hex digest of the file at path.
// It is the catalog's content identity key and is deliberately not part
// of the public algorithm set above.
func ContentScore(path string) (string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("checksum: failed to create blake2b hasher: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum: failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, defaultBlockSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("checksum: failed to read %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
