package model

import "sort"

// Band is one piece of a freshness function: from Start minutes late
// (inclusive) until the next band's start (exclusive), the delivered
// order is worth Score.
type Band struct {
	Start int `json:"start"`
	Score int `json:"score"`
}

// FreshnessFunc is a piecewise-constant map from "minutes late relative
// to ready time" to a score. Bands are sorted by Start; each band is the
// half-open interval [Start_i, Start_{i+1}) and the last band extends to
// +infinity. Offsets below the first band's start take the first band's
// score, so the function is total over all integer offsets.
type FreshnessFunc []Band

// Validate checks the band sequence: non-empty, strictly increasing
// starts, non-negative scores.
func (f FreshnessFunc) Validate() error {
	if len(f) == 0 {
		return &MalformedFreshnessError{Reason: "no bands"}
	}
	for i, b := range f {
		if b.Score < 0 {
			return &MalformedFreshnessError{Reason: "negative score"}
		}
		if i > 0 && b.Start <= f[i-1].Start {
			return &MalformedFreshnessError{Reason: "band starts not strictly increasing"}
		}
	}
	return nil
}

// ScoreAt returns the score for an order arriving offset minutes late.
// A boundary offset belongs to the band whose start equals it.
func (f FreshnessFunc) ScoreAt(offset int) int {
	// first band with Start > offset; the one before it applies
	i := sort.Search(len(f), func(i int) bool { return f[i].Start > offset })
	if i == 0 {
		return f[0].Score
	}
	return f[i-1].Score
}

// ScoreUnserved is the limiting score at infinite lateness: the final
// band's score.
func (f FreshnessFunc) ScoreUnserved() int { return f[len(f)-1].Score }

// NonIncreasing reports whether scores never improve with lateness.
// Well-formed instances satisfy this; it is not enforced.
func (f FreshnessFunc) NonIncreasing() bool {
	for i := 1; i < len(f); i++ {
		if f[i].Score > f[i-1].Score {
			return false
		}
	}
	return true
}
