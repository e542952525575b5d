package fibonacci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDeterministic(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 123456, 7654321} {
		a := Generate(seed)
		b := Generate(seed)
		assert.Equal(t, a, b, "Generate(%d) not bit-identical across calls", seed)
	}
}

func TestGenerateSequenceMonotonic(t *testing.T) {
	p := Generate(12345)
	for i := 1; i < len(p.Sequence); i++ {
		assert.GreaterOrEqual(t, p.Sequence[i], p.Sequence[i-1])
	}
}

func TestGenerateZodiacPosInRange(t *testing.T) {
	for seed := uint32(0); seed < 5000; seed += 123 {
		p := Generate(seed)
		assert.GreaterOrEqual(t, p.ZodiacPos, 0)
		assert.LessOrEqual(t, p.ZodiacPos, 11)
	}
}

func TestGenerateHarmonyRatioBounded(t *testing.T) {
	for seed := uint32(0); seed < 5000; seed += 123 {
		p := Generate(seed)
		assert.GreaterOrEqual(t, p.HarmonyRatio, 0.0)
		assert.LessOrEqual(t, p.HarmonyRatio, 1.0)
	}
}

func TestMusicalKeyIsFromFixedTable(t *testing.T) {
	p := Generate(77)
	found := false
	for _, k := range MusicalKeys {
		if k == p.MusicalKey {
			found = true
			break
		}
	}
	assert.True(t, found)
}
