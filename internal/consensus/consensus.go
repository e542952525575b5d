// Package consensus defines the ConsensusResult input type and its
// admission validation (the BadInput error kind of spec.md §7).
package consensus

import (
	"fmt"
	"math"

	"github.com/swarmsong/engine/internal/swarmerr"
)

// Result is the external input to a single generation task: the outcome
// of one swarm-consensus round.
type Result struct {
	ConsensusAchieved bool     `json:"consensusAchieved"`
	Participants      []string `json:"participants"`
	ConsensusTime     float64  `json:"consensusTime"`
	Beauty            float64  `json:"beauty"`
}

// Validate enforces the admission rule of spec.md §7 BadInput: zero
// participants or a NaN beauty fails fast, before any generation work
// starts.
func (r Result) Validate() error {
	if len(r.Participants) == 0 {
		return swarmerr.New(swarmerr.BadInput, swarmerr.ErrEmptyParticipants)
	}
	if math.IsNaN(r.Beauty) {
		return swarmerr.New(swarmerr.BadInput, swarmerr.ErrNaNBeauty)
	}
	return nil
}

// Serialize produces a stable byte representation used only to derive
// the consensus_hash seed (spec.md §4.4 step 1). It is not a wire
// format — field order is fixed so the same Result always serializes
// identically.
func (r Result) Serialize() string {
	return fmt.Sprintf("%t|%v|%f|%f", r.ConsensusAchieved, r.Participants, r.ConsensusTime, r.Beauty)
}
