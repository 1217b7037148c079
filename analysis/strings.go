package analysis

import "regexp"

// DefaultMinStringLength is the minimum printable-run length used when
// callers pass a non-positive value to ExtractStrings.
const DefaultMinStringLength = 4

const (
	printableLow  = 32
	printableHigh = 126
)

// PatternMatch reports one suspicious pattern hit inside a scanned
// buffer. Offset is the byte offset of the match start.
type PatternMatch struct {
	Pattern string `json:"pattern"`
	Offset  int    `json:"offset"`
	Text    string `json:"text"`
}

// suspiciousPatterns flag credential keywords, URLs, email addresses,
// private-key headers and shell or exec invocations. Keyword patterns
// are case-insensitive; structural ones are matched as written.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)passwd`),
	regexp.MustCompile(`(?i)pass`),
	regexp.MustCompile(`(?i)auth`),
	regexp.MustCompile(`(?i)login`),
	regexp.MustCompile(`https?://`),
	regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`),
	regexp.MustCompile(`BEGIN.*PRIVATE KEY`),
	regexp.MustCompile(`ssh-rsa`),
	regexp.MustCompile(`exec\(`),
	regexp.MustCompile(`eval\(`),
	regexp.MustCompile(`(?i)powershell`),
	regexp.MustCompile(`(?i)cmd\.exe`),
	regexp.MustCompile(`(?i)shell`),
	regexp.MustCompile(`(?i)process`),
	regexp.MustCompile(`(?i)socket`),
	regexp.MustCompile(`connect\(`),
	regexp.MustCompile(`system\(`),
	regexp.MustCompile(`bin/sh`),
	regexp.MustCompile(`bin/bash`),
}

// ExtractStrings scans data byte-by-byte and returns, in first-occurrence
// order, every maximal run of printable ASCII bytes (32..126) whose
// length is at least minLength. A trailing run at end of input is
// included.
func ExtractStrings(data []byte, minLength int) []string {
	if minLength <= 0 {
		minLength = DefaultMinStringLength
	}

	var out []string
	runStart := -1
	for i, b := range data {
		if b >= printableLow && b <= printableHigh {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if i-runStart >= minLength {
				out = append(out, string(data[runStart:i]))
			}
			runStart = -1
		}
	}
	if runStart >= 0 && len(data)-runStart >= minLength {
		out = append(out, string(data[runStart:]))
	}
	return out
}

// FindSuspicious matches the fixed suspicious-pattern set against data
// and reports every hit with its byte offset. Matches are ordered by
// pattern, then by position.
func FindSuspicious(data []byte) []PatternMatch {
	var matches []PatternMatch
	for _, re := range suspiciousPatterns {
		for _, loc := range re.FindAllIndex(data, -1) {
			matches = append(matches, PatternMatch{
				Pattern: re.String(),
				Offset:  loc[0],
				Text:    string(data[loc[0]:loc[1]]),
			})
		}
	}
	return matches
}
