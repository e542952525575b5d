// Package feedback defines the FeedbackRecord type and a bounded
// in-memory history, consulted by internal/evolution.
package feedback

import "time"

// Record is one piece of human feedback on a previously emitted
// EvolutionaryDecision.
type Record struct {
	DecisionTypeID      string    `json:"decisionTypeId"`
	HumanRating         float64   `json:"humanRating"`
	AppliedSuccessfully bool      `json:"appliedSuccessfully"`
	PerformanceImpact   float64   `json:"performanceImpact"`
	Timestamp           time.Time `json:"timestamp"`
}

// History is a bounded, append-only log of feedback records, grouped by
// decision type so per-type weights can be derived (spec.md §4.8 step 3).
type History struct {
	records []Record
	cap     int
}

// NewHistory returns a History bounded to cap entries (oldest dropped),
// matching the engine's "last N entries" memory budget convention.
func NewHistory(cap int) *History {
	if cap <= 0 {
		cap = 1000
	}
	return &History{cap: cap}
}

// Add appends a record, dropping the oldest entry if the history is full.
func (h *History) Add(r Record) {
	h.records = append(h.records, r)
	if len(h.records) > h.cap {
		h.records = h.records[len(h.records)-h.cap:]
	}
}

// Len returns the number of records currently retained.
func (h *History) Len() int {
	return len(h.records)
}

// All returns a copy of the retained records, oldest first.
func (h *History) All() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// TypeWeights derives a per-decision-type weight from mean human rating,
// normalized to [0,1]. Types with no feedback have no entry in the map.
func (h *History) TypeWeights() map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range h.records {
		sums[r.DecisionTypeID] += r.HumanRating
		counts[r.DecisionTypeID]++
	}
	weights := map[string]float64{}
	for typeID, sum := range sums {
		weights[typeID] = (sum / float64(counts[typeID])) / 10.0
	}
	return weights
}
