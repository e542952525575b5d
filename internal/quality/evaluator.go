// Package quality implements the Quality Evaluator + Classifier (C8):
// the basic-quality gate that guards persistence, the 4-D
// ProceduralProfile, and the legendary/experimental/common/rejected
// classifier.
package quality

import (
	"math"
	"time"

	"github.com/swarmsong/engine/internal/composer"
	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/fibonacci"
	"github.com/swarmsong/engine/internal/poet"
	"github.com/swarmsong/engine/internal/vitals"
)

// BasicQualityGate is the §4.6 admission threshold: below this, neither
// poetry nor persistence proceed for the event.
const BasicQualityGate = 0.2

// BasicQuality computes the weighted average of the seven factors of
// spec.md §4.6 (music only, no poetry needed yet).
func BasicQuality(r consensus.Result, sym composer.Symphony) float64 {
	consensusSuccess := 0.0
	if r.ConsensusAchieved {
		consensusSuccess = 1.0
	}

	participantDiversity := math.Min(1, float64(len(r.Participants))/10)

	melodicComplexity := meanAbsIntervalConsonance(sym.Notes)
	clusters := clusterByTime(sym.Notes, chordClusterTolerance)
	harmonicCoherence := 0.0
	if len(clusters) > 0 {
		hits := 0
		for _, cl := range clusters {
			if isTriadCluster(cl) {
				hits++
			}
		}
		harmonicCoherence = float64(hits) / float64(len(clusters))
	}
	rhythmicVariety := distinctDurationRatio(sym.Notes)
	technicalProficiency := math.Min(1, float64(len(sym.Notes))/100)

	const (
		wConsensus = 2.0
		wBeauty    = 2.0
		wDiversity = 1.0
		wMelodic   = 0.1
		wHarmonic  = 0.1
		wRhythmic  = 0.1
		wTechnical = 0.1
	)
	totalWeight := wConsensus + wBeauty + wDiversity + wMelodic + wHarmonic + wRhythmic + wTechnical

	weighted := wConsensus*consensusSuccess +
		wBeauty*r.Beauty +
		wDiversity*participantDiversity +
		wMelodic*melodicComplexity +
		wHarmonic*harmonicCoherence +
		wRhythmic*rhythmicVariety +
		wTechnical*technicalProficiency

	return weighted / totalWeight
}

func distinctDurationRatio(notes []composer.Note) float64 {
	if len(notes) == 0 {
		return 0
	}
	buckets := map[int]bool{}
	for _, n := range notes {
		buckets[int(n.DurationSeconds*100)] = true
	}
	return math.Min(1, float64(len(buckets))/float64(len(notes)))
}

// Profile is spec.md §3's ProceduralProfile.
type Profile struct {
	Coherence        float64
	Variety          float64
	Rarity           float64
	Complexity       float64
	ZodiacSignature  string
	ConsensusContext float64
	MidiNoteCount    int
	PoetryLength     int
	Timestamp        time.Time
}

// structuralBalance measures how evenly notes are spread across the
// symphony's timeline, as a proxy for "well-formed sectioning".
func structuralBalance(sym composer.Symphony) float64 {
	if sym.SectionCount == 0 || len(sym.Notes) == 0 {
		return 0
	}
	sectionWidth := sym.DurationSeconds / float64(sym.SectionCount)
	if sectionWidth <= 0 {
		return 0
	}
	counts := make([]int, sym.SectionCount)
	for _, n := range sym.Notes {
		idx := int(n.TimeSeconds / sectionWidth)
		if idx >= sym.SectionCount {
			idx = sym.SectionCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	mean := float64(len(sym.Notes)) / float64(sym.SectionCount)
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(sym.SectionCount)
	stddev := math.Sqrt(variance)
	// lower spread (closer counts per section) -> higher balance.
	return math.Max(0, 1-stddev/mean)
}

// Evaluate computes the full ProceduralProfile for a generated symphony
// + verse pair.
func Evaluate(r consensus.Result, sym composer.Symphony, verse poet.Record, v vitals.Vitals, fibSeed uint32) Profile {
	validator := Validate(sym.Notes, v)

	melodicComplexity := meanAbsIntervalConsonance(sym.Notes)
	rhythmicVariety := distinctDurationRatio(sym.Notes)
	variety := (rhythmicVariety + melodicComplexity) / 2

	rarity := RarityBonus(verse.MusicalNote, verse.ZodiacSign)
	if len(sym.Notes) > 20 {
		rarity += 0.05
	}
	rarity += math.Min(0.05, float64(len(r.Participants))*0.01)
	rarity = math.Min(1, rarity)

	pattern := fibonacci.Generate(fibSeed)
	complexity := (structuralBalance(sym) + pattern.HarmonyRatio) / 2

	return Profile{
		Coherence:        validator.Overall,
		Variety:          variety,
		Rarity:           rarity,
		Complexity:       complexity,
		ZodiacSignature:  verse.ZodiacSign,
		ConsensusContext: r.Beauty,
		MidiNoteCount:    len(sym.Notes),
		PoetryLength:     len(verse.Verse),
		Timestamp:        verse.Timestamp,
	}
}
