// Package compare computes the structural diff between two metadata
// records: every field name present on either side lands in exactly one
// of four disjoint partitions.
package compare

import (
	"github.com/dlages/filescope/metadata"
)

// ValuePair holds the two sides of a differing field.
type ValuePair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Result is the four-way partition of field names across two records.
// Invariant: Differing, Matching, OnlyLeft and OnlyRight are pairwise
// disjoint and their union is the union of both records' key sets.
type Result struct {
	LeftName  string `json:"left_name"`
	RightName string `json:"right_name"`

	Differing map[string]ValuePair `json:"differing"`
	Matching  map[string]string    `json:"matching"`
	OnlyLeft  map[string]string    `json:"only_left"`
	OnlyRight map[string]string    `json:"only_right"`
}

// Records partitions the field names of left and right. Equality is
// exact on the stringified values; no numeric tolerance is applied. The
// output is deterministic for a given pair of inputs.
func Records(left, right metadata.Record) Result {
	res := Result{
		Differing: map[string]ValuePair{},
		Matching:  map[string]string{},
		OnlyLeft:  map[string]string{},
		OnlyRight: map[string]string{},
	}

	if name, ok := left.StringValue(metadata.FieldFileName); ok {
		res.LeftName = name
	}
	if name, ok := right.StringValue(metadata.FieldFileName); ok {
		res.RightName = name
	}

	for key := range left {
		lv, _ := left.StringValue(key)
		rv, inRight := right.StringValue(key)
		switch {
		case !inRight:
			res.OnlyLeft[key] = lv
		case lv == rv:
			res.Matching[key] = lv
		default:
			res.Differing[key] = ValuePair{Left: lv, Right: rv}
		}
	}

	for key := range right {
		if _, inLeft := left[key]; !inLeft {
			rv, _ := right.StringValue(key)
			res.OnlyRight[key] = rv
		}
	}

	return res
}

// Files extracts both paths with the given extractor and compares the
// resulting records. A nonexistent path still compares: its record
// carries only the Error field.
func Files(extractor *metadata.Extractor, pathA, pathB string, computeChecksums bool) Result {
	left, _ := extractor.Extract(pathA, computeChecksums)
	right, _ := extractor.Extract(pathB, computeChecksums)
	return Records(left, right)
}
