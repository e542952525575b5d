package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swarmsong/engine/internal/clock"
	"github.com/swarmsong/engine/internal/feedback"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/vitals"
)

func TestEnhancedSeedCalculatorDeterministic(t *testing.T) {
	v := vitals.Neutral()
	m := mode.BalancedConfig()
	s1 := EnhancedSeedCalculator(v, m)
	s2 := EnhancedSeedCalculator(v, m)
	assert.Equal(t, s1, s2)
}

func TestEnhancedSeedCalculatorDistinguishesInputs(t *testing.T) {
	m := mode.BalancedConfig()
	s1 := EnhancedSeedCalculator(vitals.Neutral(), m)
	s2 := EnhancedSeedCalculator(vitals.Vitals{Health: 0.9, Stress: 0.1, Harmony: 0.5, Creativity: 0.5}, m)
	assert.NotEqual(t, s1, s2)
}

func TestGenerateDeterministicModeReproducible(t *testing.T) {
	ctx := Context{Vitals: vitals.Neutral(), FeedbackHistory: feedback.NewHistory(10)}
	m := mode.DeterministicConfig()
	clk := clock.DerivedClock{Seed: 0.75}

	d1 := Generate(ctx, m, clk)
	d2 := Generate(ctx, m, clk)

	assert.Equal(t, d1.TypeID, d2.TypeID)
	assert.Equal(t, d1.RiskLevel, d2.RiskLevel)
	assert.Equal(t, d1.FibonacciSignature, d2.FibonacciSignature)
}

func TestGenerateDeterministicExcludesVolatileCategories(t *testing.T) {
	ctx := Context{Vitals: vitals.Neutral(), FeedbackHistory: feedback.NewHistory(10)}
	m := mode.DeterministicConfig()
	clk := clock.DerivedClock{Seed: 0.2}

	for i := 0; i < 20; i++ {
		clk.Seed = float64(i) / 20
		d := Generate(ctx, m, clk)
		for _, bt := range baseTypes {
			if bt.name == d.BaseType {
				assert.NotEqual(t, categoryDestruction, bt.category)
				assert.NotEqual(t, categoryChaos, bt.category)
				assert.NotEqual(t, categoryRebellion, bt.category)
			}
		}
	}
}

func TestGenerateRiskLevelBounded(t *testing.T) {
	ctx := Context{Vitals: vitals.Vitals{Health: 0.1, Stress: 0.9, Harmony: 0.1, Creativity: 0.9}, FeedbackHistory: feedback.NewHistory(10)}
	m := mode.PunkConfig()
	clk := clock.DerivedClock{Seed: 0.5}
	d := Generate(ctx, m, clk)
	assert.GreaterOrEqual(t, d.RiskLevel, 0.0)
	assert.LessOrEqual(t, d.RiskLevel, 1.0)
	assert.GreaterOrEqual(t, d.ExpectedCreativity, 0.0)
	assert.LessOrEqual(t, d.ExpectedCreativity, 1.0)
}

func TestGenerateFibonacciSignatureLength(t *testing.T) {
	ctx := Context{Vitals: vitals.Neutral(), FeedbackHistory: feedback.NewHistory(10)}
	m := mode.BalancedConfig()
	clk := clock.DerivedClock{Seed: 0.6}
	d := Generate(ctx, m, clk)
	assert.LessOrEqual(t, len(d.FibonacciSignature), 5)
	assert.NotEmpty(t, d.FibonacciSignature)
}

func TestGenerateTypeIDIsLowercaseUnderscoreTriple(t *testing.T) {
	ctx := Context{Vitals: vitals.Neutral(), FeedbackHistory: feedback.NewHistory(10)}
	m := mode.BalancedConfig()
	clk := clock.DerivedClock{Seed: 0.3}
	d := Generate(ctx, m, clk)
	assert.Equal(t, d.BaseType+"_"+d.Modifier+"_"+d.ApplicationContext, d.TypeID)
}
