package analysis

import "math"

// DefaultChunkSize is the chunk length used when callers pass a
// non-positive value to Profile.
const DefaultChunkSize = 1024

// suspiciousThreshold marks chunks that look compressed or encrypted.
const suspiciousThreshold = 7.5

// Band is a qualitative interpretation of a whole-file entropy value.
type Band string

const (
	BandVeryLow  Band = "very-low"
	BandLow      Band = "low"
	BandMedium   Band = "medium"
	BandHigh     Band = "high"
	BandVeryHigh Band = "very-high"
)

// Interpretation strings shown alongside the band, matching the
// qualitative thresholds.
var bandInterpretations = map[Band]string{
	BandVeryLow:  "Very low entropy: likely empty, sparse, or highly repetitive data",
	BandLow:      "Low entropy: probably text, configuration files, or structured data",
	BandMedium:   "Medium entropy: typical for many document formats and basic binaries",
	BandHigh:     "High entropy: possibly compressed or media data",
	BandVeryHigh: "Very high entropy: likely encrypted or compressed data",
}

// EntropyProfile holds per-chunk and whole-input Shannon entropy values
// together with the qualitative band of the whole-input value.
type EntropyProfile struct {
	ChunkSize        int       `json:"chunk_size"`
	Chunks           []float64 `json:"chunks"`
	Overall          float64   `json:"overall"`
	Band             Band      `json:"band"`
	Interpretation   string    `json:"interpretation"`
	SuspiciousChunks []int     `json:"suspicious_chunks,omitempty"`
}

// Shannon computes the Shannon entropy in bits of the byte population of
// data. The result is always within [0, 8]; empty input yields 0.
func Shannon(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	total := float64(len(data))
	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// ClassifyEntropy maps a whole-file entropy value to its band. The
// thresholds are fixed constants.
func ClassifyEntropy(entropy float64) Band {
	switch {
	case entropy < 1:
		return BandVeryLow
	case entropy < 3:
		return BandLow
	case entropy < 6:
		return BandMedium
	case entropy < suspiciousThreshold:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// Interpret returns the human-readable interpretation of a band.
func Interpret(band Band) string {
	return bandInterpretations[band]
}

// Profile computes per-chunk entropy over data plus the whole-input
// entropy and its band. The final chunk may be shorter than chunkSize.
// Chunks whose entropy exceeds 7.5 bits are flagged as suspicious
// regions (candidate compressed or encrypted segments).
func Profile(data []byte, chunkSize int) EntropyProfile {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	profile := EntropyProfile{ChunkSize: chunkSize}
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		e := Shannon(data[start:end])
		if e > suspiciousThreshold {
			profile.SuspiciousChunks = append(profile.SuspiciousChunks, len(profile.Chunks))
		}
		profile.Chunks = append(profile.Chunks, e)
	}

	profile.Overall = Shannon(data)
	profile.Band = ClassifyEntropy(profile.Overall)
	profile.Interpretation = Interpret(profile.Band)
	return profile
}
