// Package poet implements the Poetic Composer (C7): a template-driven
// verse generator that mixes a primary zodiac lexicon with contextual
// supplementary lexicons, biased by the same Mode as the music core.
package poet

import (
	"math"
	"strings"
	"time"

	"github.com/swarmsong/engine/internal/clock"
	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/fibonacci"
	"github.com/swarmsong/engine/internal/lexicon"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/prng"
	"github.com/swarmsong/engine/internal/vitals"
)

// Numerology is spec.md §3's numerology sub-record.
type Numerology struct {
	ZodiacIndex       int
	FibonacciPosition int
	HeartbeatPhase    int
}

// Record is spec.md §3's PoetryRecord.
type Record struct {
	ID                    string
	Timestamp             time.Time
	Verse                 string
	ZodiacSign            string
	Element               string
	Quality               string
	MusicalNote           string
	Beauty                float64
	FibonacciRatio        float64
	Numerology            Numerology
	SupplementaryContexts []string
}

// Composer holds the monotonically increasing verse_count local to one
// Poetic Composer instance, per spec.md §4.5.
type Composer struct {
	verseCount int
}

// NewComposer returns a fresh Composer with verse_count at 0.
func NewComposer() *Composer {
	return &Composer{}
}

// fibonacciTerms is the fixed 12-term sequence spec.md §4.5 step 8
// indexes into, normalized by its own last term.
var fibonacciTerms = []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}

func heartbeatPhase(v vitals.Vitals) int {
	return int(math.Round(v.Health * 100))
}

// Compose is the C7 contract.
func (c *Composer) Compose(r consensus.Result, m mode.Config, v vitals.Vitals, clk clock.Clock) (Record, error) {
	c.verseCount++

	// step 1: time base
	var timestamp time.Time
	if m.EntropyFactor == 0 {
		timestamp = clock.DerivedClock{Seed: r.Beauty}.Now()
	} else {
		timestamp = clk.Now()
	}

	phase := heartbeatPhase(v)

	// step 2: zodiac selection
	var zodiacIndex int
	if m.EntropyFactor == 0 {
		zodiacIndex = int(math.Floor(r.Beauty*12)) % 12
	} else {
		zodiacIndex = (c.verseCount + phase + int(timestamp.Unix()/1000000)) % 12
	}
	if zodiacIndex < 0 {
		zodiacIndex += 12
	}
	theme := lexicon.ThemeByIndex(zodiacIndex)

	// step 3: supplementary lexicons
	var supplementary []string
	if v.Stress > 0.7 {
		supplementary = append(supplementary, "agony", "chaos")
	}
	if v.Stress < 0.3 {
		supplementary = append(supplementary, "serenity")
	}
	if r.Beauty > 0.9 {
		supplementary = append(supplementary, "ecstasy")
	}
	if v.Creativity > 0.8 {
		supplementary = append(supplementary, "ocean", "river")
	}
	if v.Harmony > 0.8 {
		supplementary = append(supplementary, "forest")
	}

	baseSeed := uint32(prng.Hash(r.Serialize())) + uint32(c.verseCount)

	adjective := c.pickWord(baseSeed, 0, theme.Adjectives, supplementary, "adjectives", m)
	verb := c.pickWord(baseSeed, 1, theme.Verbs, supplementary, "verbs", m)
	noun := c.pickWord(baseSeed, 2, theme.Nouns, supplementary, "nouns", m)

	// step 5: template selection
	templateIdx := c.selectTemplate(baseSeed, m)
	templates := lexicon.AllTemplates()
	tpl := templates[templateIdx%len(templates)]

	// step 6: verse assembly
	replacer := strings.NewReplacer(
		"${noun}", noun,
		"${verb}", verb,
		"${adjective}", adjective,
		"${zodiacTheme.element}", theme.Element,
		"${zodiacTheme.coreConcept}", theme.CoreConcept,
		"${Noun}", capitalize(noun),
		"${Verb}", capitalize(verb),
		"${Adjective}", capitalize(adjective),
	)
	verse := replacer.Replace(tpl.Text)

	// step 8: fibonacci ratio
	fibPos := c.verseCount % 12
	fibRatio := float64(fibonacciTerms[fibPos]) / float64(fibonacciTerms[len(fibonacciTerms)-1])

	// step 7: beauty
	zodiacWeight := float64(theme.FibonacciWeight)
	beauty := math.Min(1, ((r.Beauty+r.Beauty+fibRatio)/3)*(1+zodiacWeight/144)+0.1*float64(len(supplementary)))

	pattern := fibonacci.Generate(uint32(prng.Hash(r.Serialize())) + uint32(zodiacIndex))

	record := Record{
		Timestamp:      timestamp,
		Verse:          verse,
		ZodiacSign:     theme.Sign,
		Element:        theme.Element,
		Quality:        theme.Quality,
		MusicalNote:    pattern.MusicalKey,
		Beauty:         beauty,
		FibonacciRatio: fibRatio,
		Numerology: Numerology{
			ZodiacIndex:       zodiacIndex,
			FibonacciPosition: fibPos,
			HeartbeatPhase:    phase,
		},
		SupplementaryContexts: supplementary,
	}
	return record, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// pickWord implements spec.md §4.5 step 4's weighted primary/supplementary draw.
func (c *Composer) pickWord(baseSeed uint32, slot int, primary, supplementaryIDs []string, field string, m mode.Config) string {
	wp := 0.7
	if m.EntropyFactor > 0 {
		wp = math.Max(0.2, wp-0.5*(m.EntropyFactor/100))
	}
	if m.PunkProbability > 0 {
		wp = math.Max(0.1, wp-0.3*(m.PunkProbability/100))
	}

	drawSeed := prng.Derive(baseSeed, slot, 23, 29)
	var jitter uint32
	if m.EntropyFactor > 0 {
		jitter = uint32(m.EntropyFactor * 7)
	}
	u := prng.Uniform01(drawSeed + jitter)

	usePrimary := u < wp && len(primary) > 0

	var pool []string
	if usePrimary {
		pool = primary
	} else {
		pool = supplementaryWords(supplementaryIDs, field)
		if len(pool) == 0 {
			pool = primary
		}
	}
	if len(pool) == 0 {
		return ""
	}
	pickSeed := prng.Derive(baseSeed, slot, 41, 43)
	idx := prng.UniformInt(pickSeed, 0, len(pool)-1)
	return pool[idx]
}

func supplementaryWords(ids []string, field string) []string {
	var out []string
	for _, id := range ids {
		ws, ok := lexicon.Contextual(id)
		if !ok {
			continue
		}
		switch field {
		case "adjectives":
			out = append(out, ws.Adjectives...)
		case "verbs":
			out = append(out, ws.Verbs...)
		case "nouns":
			out = append(out, ws.Nouns...)
		}
	}
	return out
}

// selectTemplate implements spec.md §4.5 step 5's punk-biased subset
// selection.
func (c *Composer) selectTemplate(baseSeed uint32, m mode.Config) int {
	jitter := int(m.EntropyFactor / 10)
	seed := prng.Derive(baseSeed, 997, 11, jitter)

	chaotic := lexicon.ChaoticTemplateIndices()
	epic := lexicon.EpicTemplateIndices()
	all := lexicon.AllTemplates()

	switch {
	case m.PunkProbability > 70:
		if len(chaotic) == 0 {
			return prng.UniformInt(seed, 0, len(all)-1)
		}
		return chaotic[prng.UniformInt(seed, 0, len(chaotic)-1)]
	case m.PunkProbability > 40:
		punkWeight := m.PunkProbability / 100
		blendSize := int(math.Floor(float64(len(chaotic)) * (0.5 + punkWeight*0.5)))
		pool := append([]int{}, chaotic[:minInt(blendSize, len(chaotic))]...)
		pool = append(pool, epic...)
		if len(pool) == 0 {
			return prng.UniformInt(seed, 0, len(all)-1)
		}
		return pool[prng.UniformInt(seed, 0, len(pool)-1)]
	default:
		return prng.UniformInt(seed, 0, len(all)-1)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
