// Package evolution implements the Evolutionary Decision Generator (C10):
// a no-cache, mode-biased generator of evolutionary suggestion records
// scored for risk and expected creativity.
package evolution

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/swarmsong/engine/internal/clock"
	"github.com/swarmsong/engine/internal/feedback"
	"github.com/swarmsong/engine/internal/fibonacci"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/prng"
	"github.com/swarmsong/engine/internal/vitals"
)

// Context is spec.md §4.8's EvolutionContext.
type Context struct {
	Vitals          vitals.Vitals
	Metrics         map[string]float64
	FeedbackHistory *feedback.History
	TypeWeights     map[string]float64
}

// Decision is spec.md §3/§4.8's EvolutionaryDecision.
type Decision struct {
	TypeID             string
	BaseType           string
	Modifier           string
	ApplicationContext string
	RiskLevel          float64
	ExpectedCreativity float64
	FibonacciSignature []int
	Seed               uint64
	Timestamp          time.Time
}

// category is one of the six fixed base-type buckets of spec.md §4.8.
type category string

const (
	categoryDestruction category = "destruction"
	categoryChaos       category = "chaos"
	categoryRebellion   category = "rebellion"
	categoryExploration category = "exploration"
	categoryHarmony     category = "harmony"
	categoryAnalysis    category = "analysis"
)

type baseType struct {
	name     string
	category category
}

// baseTypes is the fixed list partitioned into the six categories.
var baseTypes = []baseType{
	{"entropy_spike", categoryDestruction},
	{"signal_collapse", categoryDestruction},
	{"pattern_break", categoryDestruction},
	{"stochastic_drift", categoryChaos},
	{"noise_injection", categoryChaos},
	{"wildcard_shift", categoryChaos},
	{"rule_override", categoryRebellion},
	{"consensus_defiance", categoryRebellion},
	{"protocol_deviation", categoryRebellion},
	{"lexicon_expansion", categoryExploration},
	{"mode_drift", categoryExploration},
	{"frontier_scan", categoryExploration},
	{"consonance_boost", categoryHarmony},
	{"resonance_lock", categoryHarmony},
	{"golden_align", categoryHarmony},
	{"feedback_review", categoryAnalysis},
	{"metric_audit", categoryAnalysis},
	{"pattern_diagnostic", categoryAnalysis},
}

var modifiers = []string{"aggressive", "subtle", "gradual", "abrupt", "resonant", "dissonant"}

var applicationContexts = []string{"global", "regional", "cluster", "individual"}

// EnhancedSeedCalculator folds vitals and the four mode knobs into a
// single deterministic u64, per spec.md §4.8 step 1.
func EnhancedSeedCalculator(v vitals.Vitals, m mode.Config) uint64 {
	key := fmt.Sprintf("%.6f|%.6f|%.6f|%.6f|%.3f|%.3f|%.3f|%.3f",
		v.Health, v.Stress, v.Harmony, v.Creativity,
		m.EntropyFactor, m.RiskThreshold, m.PunkProbability, m.FeedbackInfluence)
	lo := prng.Hash(key)
	hi := prng.Hash(key + "|hi")
	return uint64(hi)<<32 | uint64(lo)
}

// Generate produces a fresh EvolutionaryDecision for the given context,
// mode, and clock. No cache is consulted (disabled per spec.md §4.8).
func Generate(ctx Context, m mode.Config, clk clock.Clock) Decision {
	baseSeed := EnhancedSeedCalculator(ctx.Vitals, m)

	now := clk.Now()
	microEntropy := uint64((float64(now.UnixMilli()%10000) / 10000) * 50)
	uniqueSeed := baseSeed + microEntropy

	seed32 := uint32(uniqueSeed & 0xFFFFFFFF)
	pattern := fibonacci.Generate(seed32)

	candidates := filterByCategory(m)
	bt := weightedTypeDraw(candidates, ctx.TypeWeights, uniqueSeed)

	modSeed := prng.Derive(seed32, 1, 3, 7)
	modifier := modifiers[prng.UniformInt(modSeed, 0, len(modifiers)-1)]

	ctxSeed := prng.Derive(seed32, 2, 5, 11)
	appCtx := applicationContexts[prng.UniformInt(ctxSeed, 0, len(applicationContexts)-1)]

	harmonyRisk := 1 - pattern.HarmonyRatio
	feedbackCount := 0
	if ctx.FeedbackHistory != nil {
		feedbackCount = ctx.FeedbackHistory.Len()
	}
	feedbackRisk := 0.8
	if feedbackCount > 10 {
		feedbackRisk = 0.2
	}
	systemRisk := ((1 - (ctx.Vitals.Health+ctx.Vitals.Harmony)/2) + ctx.Vitals.Stress) / 2

	baseRisk := 0.4*harmonyRisk + 0.3*feedbackRisk + 0.3*systemRisk
	riskLevel := clampUnit(baseRisk * (m.RiskThreshold / 50))

	patternCreativity := pattern.HarmonyRatio
	contextCreativity := 0.5
	if v, ok := ctx.Metrics["creativity"]; ok {
		contextCreativity = v
	}
	expectedCreativity := clampUnit(0.5*patternCreativity + 0.3*contextCreativity + 0.2*ctx.Vitals.Creativity)

	sigLen := 5
	offset := int(math.Floor((float64(pattern.ZodiacPos) / 12) * math.Max(0, float64(len(pattern.Sequence)-sigLen))))
	signature := fibonacciSignature(pattern.Sequence, offset, sigLen)

	typeID := strings.ToLower(strings.Join([]string{bt.name, modifier, appCtx}, "_"))

	return Decision{
		TypeID:             typeID,
		BaseType:           bt.name,
		Modifier:           modifier,
		ApplicationContext: appCtx,
		RiskLevel:          riskLevel,
		ExpectedCreativity: expectedCreativity,
		FibonacciSignature: signature,
		Seed:               uniqueSeed,
		Timestamp:          now,
	}
}

func fibonacciSignature(seq []int, offset, n int) []int {
	if len(seq) == 0 {
		return nil
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(seq) {
		offset = len(seq)
	}
	end := offset + n
	if end > len(seq) {
		end = len(seq)
	}
	out := make([]int, end-offset)
	copy(out, seq[offset:end])
	return out
}

// filterByCategory applies the Mode's category filter: deterministic
// mode (punk_probability == 0 and risk_threshold <= 10, i.e. the
// Deterministic preset tuple) filters destruction/chaos/rebellion out
// entirely; every other mode keeps them, with no extra weight for punk.
func filterByCategory(m mode.Config) []baseType {
	excludeVolatile := m.PunkProbability == 0 && m.RiskThreshold <= 10
	out := make([]baseType, 0, len(baseTypes))
	for _, bt := range baseTypes {
		volatile := bt.category == categoryDestruction || bt.category == categoryChaos || bt.category == categoryRebellion
		if volatile && excludeVolatile {
			continue
		}
		out = append(out, bt)
	}
	if len(out) == 0 {
		return baseTypes
	}
	return out
}

// weightedTypeDraw performs a feedback-weighted draw seeded from
// unique_seed, per spec.md §4.8 step 3.
func weightedTypeDraw(candidates []baseType, weights map[string]float64, uniqueSeed uint64) baseType {
	total := 0.0
	cumulative := make([]float64, len(candidates))
	for i, bt := range candidates {
		w := 1.0
		if weights != nil {
			if override, ok := weights[bt.name]; ok && override > 0 {
				w = override
			}
		}
		// No category gets an extra boost here: the weight is the
		// feedback override or 1, whatever the Mode's punk knob.
		total += w
		cumulative[i] = total
	}
	seed32 := uint32(uniqueSeed & 0xFFFFFFFF)
	u := prng.Uniform01(seed32) * total
	for i, c := range cumulative {
		if u <= c {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
