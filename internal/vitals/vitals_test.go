package vitals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeutralIsMidRangeOnAllAxes(t *testing.T) {
	v := Neutral()
	assert.Equal(t, 0.5, v.Health)
	assert.Equal(t, 0.5, v.Stress)
	assert.Equal(t, 0.5, v.Harmony)
	assert.Equal(t, 0.5, v.Creativity)
}

func TestStaticProviderReturnsSnapshot(t *testing.T) {
	snap := Vitals{Health: 0.9, Stress: 0.1, Harmony: 0.8, Creativity: 0.7}
	p := StaticProvider{Snapshot: snap}
	assert.Equal(t, snap, p.Current())
}
