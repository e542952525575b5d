package quality

import (
	"math"
	"sort"

	"github.com/swarmsong/engine/internal/composer"
	"github.com/swarmsong/engine/internal/vitals"
)

// harmonicRatios are the frequency ratios spec.md §4.6 calls "harmonic":
// 2/1 (octave), 3/2 (fifth), 4/3 (fourth), 5/3 (major sixth), 5/4 (major
// third), 6/5 (minor third), 7/4 (harmonic seventh), 9/8 (major second).
var harmonicRatios = []float64{2, 1.5, 4.0 / 3, 5.0 / 3, 1.25, 1.2, 1.75, 1.125}

const harmonicRatioTolerance = 0.02
const chordClusterTolerance = 0.05 // 50ms, per spec.md §4.6

// midiFrequency converts a MIDI pitch to Hz (A4 = pitch 69 = 440Hz).
func midiFrequency(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

func isHarmonicRatio(a, b int) bool {
	fa, fb := midiFrequency(a), midiFrequency(b)
	if fa <= 0 || fb <= 0 {
		return false
	}
	ratio := fa / fb
	if ratio < 1 {
		ratio = 1 / ratio
	}
	for _, target := range harmonicRatios {
		if math.Abs(ratio-target) < harmonicRatioTolerance {
			return true
		}
	}
	return false
}

// triadIntervalSets are pitch-class interval sets (relative to the
// lowest note) that count as a recognizable triad.
var triadIntervalSets = [][2]int{
	{4, 7}, // major
	{3, 7}, // minor
	{3, 6}, // diminished
	{4, 8}, // augmented
}

func clusterByTime(notes []composer.Note, tolerance float64) [][]composer.Note {
	if len(notes) == 0 {
		return nil
	}
	sorted := make([]composer.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeSeconds < sorted[j].TimeSeconds })

	var clusters [][]composer.Note
	current := []composer.Note{sorted[0]}
	for _, n := range sorted[1:] {
		if n.TimeSeconds-current[0].TimeSeconds <= tolerance {
			current = append(current, n)
		} else {
			clusters = append(clusters, current)
			current = []composer.Note{n}
		}
	}
	clusters = append(clusters, current)
	return clusters
}

func isTriadCluster(cluster []composer.Note) bool {
	if len(cluster) < 3 {
		return false
	}
	pitchClasses := map[int]bool{}
	for _, n := range cluster {
		pitchClasses[((n.Pitch%12)+12)%12] = true
	}
	if len(pitchClasses) < 3 {
		return false
	}
	classes := make([]int, 0, len(pitchClasses))
	for pc := range pitchClasses {
		classes = append(classes, pc)
	}
	sort.Ints(classes)

	root := classes[0]
	rel := map[int]bool{}
	for _, pc := range classes {
		rel[((pc-root)+12)%12] = true
	}
	for _, set := range triadIntervalSets {
		if rel[set[0]] && rel[set[1]] {
			return true
		}
	}
	return false
}

// meanAbsIntervalConsonance scores the consecutive melodic interval
// sequence: small, scale-like steps score higher than wide, dissonant
// leaps, normalized to [0,1].
func meanAbsIntervalConsonance(notes []composer.Note) float64 {
	sorted := make([]composer.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeSeconds < sorted[j].TimeSeconds })

	if len(sorted) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(sorted); i++ {
		interval := math.Abs(float64(sorted[i].Pitch - sorted[i-1].Pitch))
		// consonance decays with interval width; an octave (12) or wider
		// scores near 0, a unison or step scores near 1.
		score := 1 - math.Min(interval/12, 1)
		total += score
	}
	return total / float64(len(sorted)-1)
}

// HarmonyValidator computes the coherence sub-scores of spec.md §4.6:
// melodic-interval consonance, triad detection within a 50ms tolerance,
// and harmonic frequency-ratio analysis.
type HarmonyValidator struct {
	MelodicConsonance float64
	TriadFraction     float64
	RatioFraction     float64
	Overall           float64
}

// Validate scores a note stream against the given vitals context. Vitals
// are accepted per the §4.6 contract but do not currently bias the
// score — the formula spec.md gives is purely structural.
func Validate(notes []composer.Note, _ vitals.Vitals) HarmonyValidator {
	melodic := meanAbsIntervalConsonance(notes)

	clusters := clusterByTime(notes, chordClusterTolerance)
	var triadHits, ratioHits, ratioChecks int
	for _, cl := range clusters {
		if isTriadCluster(cl) {
			triadHits++
		}
		for i := 0; i < len(cl); i++ {
			for j := i + 1; j < len(cl); j++ {
				ratioChecks++
				if isHarmonicRatio(cl[i].Pitch, cl[j].Pitch) {
					ratioHits++
				}
			}
		}
	}

	var triadFraction, ratioFraction float64
	if len(clusters) > 0 {
		triadFraction = float64(triadHits) / float64(len(clusters))
	}
	if ratioChecks > 0 {
		ratioFraction = float64(ratioHits) / float64(ratioChecks)
	}

	overall := 0.4*melodic + 0.3*triadFraction + 0.3*ratioFraction

	return HarmonyValidator{
		MelodicConsonance: melodic,
		TriadFraction:     triadFraction,
		RatioFraction:     ratioFraction,
		Overall:           overall,
	}
}
