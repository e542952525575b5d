package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryDropsOldestBeyondCap(t *testing.T) {
	h := NewHistory(2)
	h.Add(Record{DecisionTypeID: "a", HumanRating: 1})
	h.Add(Record{DecisionTypeID: "b", HumanRating: 2})
	h.Add(Record{DecisionTypeID: "c", HumanRating: 3})

	assert.Equal(t, 2, h.Len())
	all := h.All()
	assert.Equal(t, "b", all[0].DecisionTypeID)
	assert.Equal(t, "c", all[1].DecisionTypeID)
}

func TestTypeWeightsAveragesRatings(t *testing.T) {
	h := NewHistory(10)
	h.Add(Record{DecisionTypeID: "x", HumanRating: 8})
	h.Add(Record{DecisionTypeID: "x", HumanRating: 6})

	weights := h.TypeWeights()
	assert.InDelta(t, 0.7, weights["x"], 1e-9)
}

func TestNewHistoryDefaultsCapWhenNonPositive(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 5; i++ {
		h.Add(Record{DecisionTypeID: "x"})
	}
	assert.Equal(t, 5, h.Len())
}
