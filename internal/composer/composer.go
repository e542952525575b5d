// Package composer implements the Musical Composer (C6): a
// Fibonacci-sectioned, multi-layer symphony generator whose melodic
// intervals, chord extensions, and rhythmic density are all modulated
// by the active mode.
package composer

import (
	"math"
	"sort"

	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/prng"
)

// Note is spec.md §3's MIDINote.
type Note struct {
	Pitch           int
	DurationSeconds float64
	Velocity        int
	TimeSeconds     float64
}

// Symphony is the ordered note stream produced for one consensus event,
// plus the structural parameters the rest of the pipeline needs.
type Symphony struct {
	Notes           []Note
	DurationSeconds float64
	ZodiacMode      string
	RootPitch       int
	LayerCount      int
	ConsensusHash   uint64
	SectionCount    int
}

const sectionCount = 7

// sectionWeights are the Fibonacci sectioning weights of spec.md §4.4.
var sectionWeights = []int{1, 1, 2, 3, 5, 8, 13}

const goldenRatio = 1.618033988749895

// zodiacModeNames is the fixed ordering of the six scale families,
// indexed by floor(beauty*6).
var zodiacModeNames = []string{"major", "minor", "dorian", "phrygian", "lydian", "mixolydian"}

// scalePatterns maps each mode to its 7-tone interval pattern (semitones
// from the tonic), adapted from the teacher's internal/modulation.Scales
// table.
var scalePatterns = map[string][]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"dorian":     {0, 2, 3, 5, 7, 9, 10},
	"phrygian":   {0, 1, 3, 5, 7, 8, 10},
	"lydian":     {0, 2, 4, 6, 7, 9, 11},
	"mixolydian": {0, 2, 4, 5, 7, 9, 10},
}

// chordSkeletons maps each mode to its base triad intervals (spec.md §4.4.2).
var chordSkeletons = map[string][]int{
	"major":      {0, 4, 7},
	"lydian":     {0, 4, 7},
	"mixolydian": {0, 4, 7},
	"minor":      {0, 3, 7},
	"dorian":     {0, 3, 7},
	"phrygian":   {0, 3, 6},
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// zodiacModeIndex implements floor(beauty*6), clamped into [0,5].
func zodiacModeIndex(beauty float64) int {
	idx := int(math.Floor(beauty * 6))
	return clampInt(idx, 0, 5)
}

// Compose is the C6 contract: ConsensusResult + ModeConfig -> Symphony.
func Compose(r consensus.Result, m mode.Config) Symphony {
	consensusHash := prng.Hash(r.Serialize())
	durationSeconds := float64(20 + int(consensusHash%1000)%40)

	modeIdx := zodiacModeIndex(r.Beauty)
	zodiacMode := zodiacModeNames[modeIdx]

	rootPitch := 48 + (len(r.Participants) % 24)
	layerCount := clampInt(len(r.Participants)/3+1, 2, 5)

	totalWeight := 0
	for _, w := range sectionWeights {
		totalWeight += w
	}

	var notes []Note
	sectionStart := 0.0
	for s := 0; s < sectionCount; s++ {
		sectionDuration := durationSeconds * float64(sectionWeights[s]) / float64(totalWeight)
		sectionSeed := uint32(consensusHash + uint64(s)*1000)

		for layer := 0; layer < layerCount; layer++ {
			switch {
			case layer == 0:
				notes = append(notes, melodicLayer(sectionSeed, sectionStart, sectionDuration, layer, rootPitch, zodiacMode, r.Beauty, m)...)
			case layer >= 1 && layer <= 2:
				layerRoot := rootPitch + (layer-1)*7
				notes = append(notes, harmonicLayer(sectionSeed, sectionStart, sectionDuration, layerRoot, zodiacMode, r.Beauty, m)...)
			default:
				notes = append(notes, rhythmicLayer(sectionSeed, sectionStart, sectionDuration, len(r.Participants), r.Beauty, m)...)
			}
		}

		sectionStart += sectionDuration
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].TimeSeconds < notes[j].TimeSeconds
	})

	return Symphony{
		Notes:           notes,
		DurationSeconds: durationSeconds,
		ZodiacMode:      zodiacMode,
		RootPitch:       rootPitch,
		LayerCount:      layerCount,
		ConsensusHash:   consensusHash,
		SectionCount:    sectionCount,
	}
}

// melodicPitchOffset computes the entropy/risk/punk-modulated pitch
// offset for one melodic note (spec.md §4.4.1). Returns 0 when entropy
// is 0 (Deterministic mode applies no offset at all).
func melodicPitchOffset(seed uint32, i int, quantizedTime int, m mode.Config) int {
	if m.EntropyFactor <= 0 {
		return 0
	}
	entropySeed := prng.Derive(seed, i, 31, quantizedTime)

	base := int(math.Floor(m.EntropyFactor / 100 * 6))

	var maxOffset int
	switch {
	case m.RiskThreshold < 30:
		maxOffset = clampInt(base, 0, 2)
	case m.RiskThreshold < 60:
		maxOffset = clampInt(base, 0, 4)
	default:
		maxOffset = base
		if m.PunkProbability > 60 {
			maxOffset += 2
		}
		if m.PunkProbability > 80 {
			maxOffset += 4
		}
		if maxOffset > 10 {
			maxOffset = 10
		}
	}

	if maxOffset <= 0 {
		return 0
	}
	return prng.UniformInt(entropySeed, -maxOffset, maxOffset)
}

func melodicLayer(seed uint32, sectionStart, sectionDuration float64, layer, root int, zodiacMode string, beauty float64, m mode.Config) []Note {
	pattern := scalePatterns[zodiacMode]
	relDurations := []int{1, 1, 2, 3, 5, 8}
	const relTotal = 20.0

	var notes []Note
	localTime := 0.0
	for i, rel := range relDurations {
		scaleDegree := (int(seed) + 7*i + 13*layer) % 7
		if scaleDegree < 0 {
			scaleDegree += 7
		}
		interval := pattern[scaleDegree]

		octaveOffset := ((int(seed)+11*i)%3+3)%3 - 1

		pitch := root + interval + octaveOffset*12
		quantizedTime := int(localTime * 100)
		pitch += melodicPitchOffset(seed, i, quantizedTime, m)
		pitch = clampInt(pitch, 36, 96)

		velBase := 60 + int(math.Floor(beauty*40))
		velAdj := int(math.Floor((1 - beauty) * 20))
		velocity := velBase
		if (int(seed)+i)%2 == 0 {
			velocity += velAdj
		} else {
			velocity -= velAdj
		}
		velocity = clampInt(velocity, 20, 120)

		durMod := 1.0
		if (int(seed)+17*i)%2 != 0 {
			durMod = goldenRatio
		}
		durBase := float64(rel) / relTotal * sectionDuration
		duration := durBase * durMod * 0.8

		if m.EntropyFactor > 0 {
			varSeed := prng.Derive(seed, i, 41, quantizedTime)
			variation := (prng.Uniform01(varSeed) - 0.5) * 2 * (m.EntropyFactor / 100)
			duration *= 1 + variation
		}
		if duration < 0.1 {
			duration = 0.1
		}

		notes = append(notes, Note{
			Pitch:           pitch,
			DurationSeconds: duration,
			Velocity:        velocity,
			TimeSeconds:     sectionStart + localTime,
		})

		localTime += float64(rel) / relTotal * sectionDuration
	}
	return notes
}

func harmonicLayer(seed uint32, sectionStart, sectionDuration float64, root int, zodiacMode string, beauty float64, m mode.Config) []Note {
	skeleton := chordSkeletons[zodiacMode]
	velocity := clampInt(35+int(math.Floor(beauty*25)), 0, 127)

	numChords := int(math.Floor(sectionDuration / 2))
	if numChords < 1 {
		numChords = 1
	}

	var notes []Note
	for c := 0; c < numChords; c++ {
		chordStart := float64(c) * 2
		slotDuration := math.Min(2, sectionDuration-chordStart)
		if slotDuration <= 0 {
			break
		}
		chordSeed := prng.Derive(seed, c, 3, 5)

		offsets := append([]int{}, skeleton...)
		triggered := int(chordSeed%100) > int(100-m.EntropyFactor)
		if triggered && m.EntropyFactor > 0 {
			triggerParity := chordSeed%2 == 0
			switch {
			case m.EntropyFactor >= 60 && m.RiskThreshold < 40:
				if triggerParity {
					offsets = append(offsets, 9)
				} else {
					offsets = append(offsets, 10)
				}
			case m.EntropyFactor >= 60 && m.RiskThreshold < 60:
				exts := []int{9, 11, 13}
				offsets = append(offsets, exts[int(chordSeed)%len(exts)])
			case m.EntropyFactor >= 60:
				exts := []int{6, 8, 9, 10, 11, 13, 14}
				offsets = append(offsets, exts[int(chordSeed)%len(exts)])
				if m.RiskThreshold > 70 {
					secondSeed := prng.Derive(chordSeed, 1, 2, 3)
					if secondSeed%2 == 0 {
						offsets = append(offsets, exts[int(secondSeed)%len(exts)])
					}
				}
			default:
				offsets = append(offsets, 10)
			}
		}

		duration := slotDuration * 0.9
		for _, off := range offsets {
			pitch := clampInt(root+off, 36, 84)
			notes = append(notes, Note{
				Pitch:           pitch,
				DurationSeconds: duration,
				Velocity:        velocity,
				TimeSeconds:     sectionStart + chordStart,
			})
		}
	}
	return notes
}

func rhythmicLayer(seed uint32, sectionStart, sectionDuration float64, participantCount int, beauty float64, m mode.Config) []Note {
	const grid = 0.25
	density := clampFloat(float64(participantCount)/10, 0.3, 0.8)
	if m.EntropyFactor > 0 {
		perturbSeed := prng.Derive(seed, 997, 7, 11)
		spread := m.EntropyFactor / 200
		perturb := (prng.Uniform01(perturbSeed)*2 - 1) * spread
		density = clampFloat(density+perturb, 0.2, 0.9)
	}

	numBeats := int(math.Floor(sectionDuration / grid))
	velocity := clampInt(45+int(math.Floor((1-beauty)*30)), 0, 127)

	var notes []Note
	for b := 0; b < numBeats; b++ {
		beatSeed := prng.Derive(seed, b, 17, 19)
		if float64(beatSeed%100)/100 < density {
			pitch := 36 + int(beatSeed%12)
			notes = append(notes, Note{
				Pitch:           pitch,
				DurationSeconds: grid * 0.6,
				Velocity:        velocity,
				TimeSeconds:     sectionStart + float64(b)*grid,
			})
		}
	}
	return notes
}
