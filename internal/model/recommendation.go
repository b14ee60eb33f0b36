package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ScoreEpsilon is the tolerance used when comparing affinity scores.
const ScoreEpsilon = 1e-9

// Recommendation is a ranked candidate for one identity.
type Recommendation struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Identity  string    `json:"-" yaml:"-"`
	Candidate string    `json:"name" yaml:"name"`
	Score     float64   `json:"score" yaml:"score"`
	Rank      int       `json:"rank" yaml:"rank"`
}

// Recommendations is a slice of Recommendation that supports sorting and utility methods.
type Recommendations []Recommendation

// Len implements sort.Interface.
func (r Recommendations) Len() int {
	return len(r)
}

// Less implements sort.Interface - higher scores come first.
func (r Recommendations) Less(i, j int) bool {
	if math.Abs(r[i].Score-r[j].Score) > ScoreEpsilon {
		return r[i].Score > r[j].Score
	}
	// Equal scores fall back to the candidate name
	return r[i].Candidate < r[j].Candidate
}

// Swap implements sort.Interface.
func (r Recommendations) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

// Sort sorts the recommendations by score in descending order.
func (r Recommendations) Sort() {
	sort.Sort(r)
}

// TopN returns the N highest-scoring recommendations with ranks 1..N assigned.
func (r Recommendations) TopN(n int) Recommendations {
	if n <= 0 {
		return Recommendations{}
	}

	r.Sort()

	if n > len(r) {
		n = len(r)
	}

	result := make(Recommendations, n)
	copy(result, r[:n])
	for i := range result {
		result[i].Rank = i + 1
	}
	return result
}

// Find returns the recommendation for the named candidate, or nil.
func (r Recommendations) Find(candidate string) *Recommendation {
	for i := range r {
		if r[i].Candidate == candidate {
			return &r[i]
		}
	}
	return nil
}

// MaxRank returns the highest rank present, or 0 when empty.
func (r Recommendations) MaxRank() int {
	maxRank := 0
	for _, rec := range r {
		if rec.Rank > maxRank {
			maxRank = rec.Rank
		}
	}
	return maxRank
}

// Validate ensures ranks form the sequence 1..len(r) and candidates are unique.
func (r Recommendations) Validate() error {
	seenRank := make(map[int]bool, len(r))
	seenName := make(map[string]bool, len(r))

	for i, rec := range r {
		if rec.Candidate == "" {
			return fmt.Errorf("recommendation at index %d has no candidate", i)
		}
		if seenName[rec.Candidate] {
			return fmt.Errorf("duplicate candidate %q in recommendations", rec.Candidate)
		}
		seenName[rec.Candidate] = true

		if rec.Rank < 1 || rec.Rank > len(r) {
			return fmt.Errorf("rank %d out of range 1..%d", rec.Rank, len(r))
		}
		if seenRank[rec.Rank] {
			return fmt.Errorf("duplicate rank %d in recommendations", rec.Rank)
		}
		seenRank[rec.Rank] = true
	}

	return nil
}
