package poet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmsong/engine/internal/clock"
	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/lexicon"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/vitals"
)

func sampleResult() consensus.Result {
	return consensus.Result{
		ConsensusAchieved: true,
		Participants:      []string{"n1", "n2", "n3"},
		ConsensusTime:     1.5,
		Beauty:            0.75,
	}
}

func TestComposeDeterministicReproducibility(t *testing.T) {
	r := sampleResult()
	m := mode.DeterministicConfig()
	v := vitals.Neutral()

	c1 := NewComposer()
	rec1, err := c1.Compose(r, m, v, clock.SystemClock{})
	assert.NoError(t, err)

	c2 := NewComposer()
	rec2, err := c2.Compose(r, m, v, clock.SystemClock{})
	assert.NoError(t, err)

	assert.Equal(t, rec1.Verse, rec2.Verse)
	assert.Equal(t, rec1.ZodiacSign, rec2.ZodiacSign)
	assert.Equal(t, rec1.Beauty, rec2.Beauty)
	assert.Equal(t, rec1.Timestamp, rec2.Timestamp)
}

func TestComposeBeautyInRange(t *testing.T) {
	r := sampleResult()
	m := mode.BalancedConfig()
	v := vitals.Neutral()
	c := NewComposer()
	rec, err := c.Compose(r, m, v, clock.SystemClock{})
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, rec.Beauty, 0.0)
	assert.LessOrEqual(t, rec.Beauty, 1.0)
}

// TestPunkBiasChaoticTemplates mirrors spec.md §8 P5/S2: every template
// selected at punk_probability > 70 lies in the chaotic subset.
func TestPunkBiasChaoticTemplates(t *testing.T) {
	m := mode.PunkConfig()
	c := NewComposer()
	chaotic := lexicon.ChaoticTemplateIndices()
	require.NotEmpty(t, chaotic)

	for seed := uint32(0); seed < 200; seed++ {
		idx := c.selectTemplate(seed, m)
		assert.Contains(t, chaotic, idx)
	}
}

func TestSupplementaryContextsTriggered(t *testing.T) {
	r := sampleResult()
	m := mode.BalancedConfig()
	v := vitals.Vitals{Health: 0.5, Stress: 0.9, Harmony: 0.9, Creativity: 0.9}
	c := NewComposer()
	rec, err := c.Compose(r, m, v, clock.SystemClock{})
	assert.NoError(t, err)
	assert.Contains(t, rec.SupplementaryContexts, "agony")
	assert.Contains(t, rec.SupplementaryContexts, "chaos")
	assert.Contains(t, rec.SupplementaryContexts, "ocean")
	assert.Contains(t, rec.SupplementaryContexts, "forest")
}

func TestZodiacIndexDeterministicFormula(t *testing.T) {
	r := consensus.Result{Participants: []string{"a"}, Beauty: 0.75}
	m := mode.DeterministicConfig()
	v := vitals.Neutral()
	c := NewComposer()
	rec, err := c.Compose(r, m, v, clock.SystemClock{})
	assert.NoError(t, err)
	// floor(0.75*12) mod 12 = 9 -> Capricorn
	assert.Equal(t, 9, rec.Numerology.ZodiacIndex)
	assert.Equal(t, "Capricorn", rec.ZodiacSign)
}
