package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedClockIsDeterministic(t *testing.T) {
	c1 := DerivedClock{Seed: 0.75}
	c2 := DerivedClock{Seed: 0.75}
	assert.Equal(t, c1.Now(), c2.Now())
}

func TestDerivedClockDistinguishesSeeds(t *testing.T) {
	c1 := DerivedClock{Seed: 0.1}
	c2 := DerivedClock{Seed: 0.9}
	assert.NotEqual(t, c1.Now(), c2.Now())
}

func TestSystemClockAdvances(t *testing.T) {
	c := SystemClock{}
	first := c.Now()
	second := c.Now()
	assert.False(t, second.Before(first))
}
