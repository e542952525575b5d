package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swarmsong/engine/internal/swarmerr"
)

func TestValidateRejectsEmptyParticipants(t *testing.T) {
	r := Result{Participants: nil, Beauty: 0.5}
	err := r.Validate()
	assert.True(t, swarmerr.Is(err, swarmerr.BadInput))
}

func TestValidateRejectsNaNBeauty(t *testing.T) {
	r := Result{Participants: []string{"n1"}, Beauty: math.NaN()}
	err := r.Validate()
	assert.True(t, swarmerr.Is(err, swarmerr.BadInput))
}

func TestValidateAcceptsWellFormedResult(t *testing.T) {
	r := Result{Participants: []string{"n1", "n2"}, Beauty: 0.75}
	assert.NoError(t, r.Validate())
}

func TestSerializeIsStable(t *testing.T) {
	r := Result{ConsensusAchieved: true, Participants: []string{"n1", "n2"}, ConsensusTime: 1.5, Beauty: 0.75}
	assert.Equal(t, r.Serialize(), r.Serialize())
}
