package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresetInvariance(t *testing.T) {
	m := NewManager()

	m.SetMode(Deterministic)
	cfg := m.Get()
	assert.Equal(t, 0.0, cfg.EntropyFactor)
	assert.Equal(t, 10.0, cfg.RiskThreshold)
	assert.Equal(t, 0.0, cfg.PunkProbability)
	assert.Equal(t, 0.0, cfg.FeedbackInfluence)

	m.SetMode(Balanced)
	cfg = m.Get()
	assert.Equal(t, 50.0, cfg.EntropyFactor)
	assert.Equal(t, 40.0, cfg.RiskThreshold)
	assert.Equal(t, 30.0, cfg.PunkProbability)
	assert.Equal(t, 50.0, cfg.FeedbackInfluence)

	m.SetMode(Punk)
	cfg = m.Get()
	assert.Equal(t, 100.0, cfg.EntropyFactor)
	assert.Equal(t, 70.0, cfg.RiskThreshold)
	assert.Equal(t, 80.0, cfg.PunkProbability)
	assert.Equal(t, 100.0, cfg.FeedbackInfluence)
}

func TestCustomModeClampsOutOfRange(t *testing.T) {
	m := NewManager()
	m.SetCustomMode(Config{EntropyFactor: 150, RiskThreshold: -20, PunkProbability: 50, FeedbackInfluence: 9999})
	cfg := m.Get()
	assert.Equal(t, 100.0, cfg.EntropyFactor)
	assert.Equal(t, 0.0, cfg.RiskThreshold)
	assert.Equal(t, 50.0, cfg.PunkProbability)
	assert.Equal(t, 100.0, cfg.FeedbackInfluence)
}

// TestFeedbackAdjustmentScenario mirrors spec.md §8 scenario S5.
func TestFeedbackAdjustmentScenario(t *testing.T) {
	m := NewManager() // starts Balanced (50,40,30,50)

	m.AdjustFromFeedback(9)
	cfg := m.Get()
	assert.Equal(t, 60.0, cfg.EntropyFactor)
	assert.Equal(t, 45.0, cfg.RiskThreshold)
	assert.Equal(t, 40.0, cfg.PunkProbability)
	assert.Equal(t, 50.0, cfg.FeedbackInfluence)

	m.AdjustFromFeedback(3)
	cfg = m.Get()
	assert.Equal(t, 50.0, cfg.EntropyFactor)
	assert.Equal(t, 40.0, cfg.RiskThreshold)
	assert.Equal(t, 30.0, cfg.PunkProbability)

	before := m.Get()
	m.AdjustFromFeedback(6)
	after := m.Get()
	assert.Equal(t, before, after)
}

func TestExtremePresetsDoNotAutoAdjust(t *testing.T) {
	m := NewManager()
	m.SetMode(Deterministic)
	before := m.Get()
	m.AdjustFromFeedback(10)
	after := m.Get()
	assert.Equal(t, before, after)

	m.SetMode(Punk)
	before = m.Get()
	m.AdjustFromFeedback(0)
	after = m.Get()
	assert.Equal(t, before, after)
}

func TestResetRestoresBalanced(t *testing.T) {
	m := NewManager()
	m.SetMode(Punk)
	m.Reset()
	assert.Equal(t, BalancedConfig(), m.Get())
}

func TestKnobsStayInRangeAfterManyAdjustments(t *testing.T) {
	m := NewManager()
	for i := 0; i < 200; i++ {
		m.AdjustFromFeedback(9)
	}
	cfg := m.Get()
	assert.GreaterOrEqual(t, cfg.EntropyFactor, 0.0)
	assert.LessOrEqual(t, cfg.EntropyFactor, 100.0)
	assert.GreaterOrEqual(t, cfg.RiskThreshold, 0.0)
	assert.LessOrEqual(t, cfg.RiskThreshold, 100.0)
	assert.GreaterOrEqual(t, cfg.PunkProbability, 0.0)
	assert.LessOrEqual(t, cfg.PunkProbability, 100.0)
}
