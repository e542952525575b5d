package swarmsong

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/mode"
)

func sampleResult() consensus.Result {
	return consensus.Result{
		ConsensusAchieved: true,
		Participants:      []string{"n1", "n2", "n3"},
		ConsensusTime:     1.5,
		Beauty:            0.75,
	}
}

func TestRecordConsensusEventRejectsBadInput(t *testing.T) {
	e := NewEngine()
	_, err := e.RecordConsensusEvent(context.Background(), consensus.Result{})
	assert.Error(t, err)
}

func TestRecordConsensusEventQualityGateRejection(t *testing.T) {
	e := NewEngine()
	r := consensus.Result{ConsensusAchieved: false, Participants: []string{"n1"}, Beauty: 0.0}
	result, err := e.RecordConsensusEvent(context.Background(), r)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestRecordConsensusEventAcceptedPath(t *testing.T) {
	e := NewEngine()
	e.Modes.SetMode(mode.Deterministic)
	r := sampleResult()

	result, err := e.RecordConsensusEvent(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Verse.Verse)
	assert.NotEmpty(t, result.Symphony.Notes)
	assert.NotEmpty(t, result.MIDIBuffer)
	assert.Contains(t, []string{"legendary", "experimental", "common", "rejected"}, string(result.Classification))
}

func TestRecordConsensusEventDeterministicReproducibility(t *testing.T) {
	r := sampleResult()

	e1 := NewEngine()
	e1.Modes.SetMode(mode.Deterministic)
	res1, err := e1.RecordConsensusEvent(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, res1)

	e2 := NewEngine()
	e2.Modes.SetMode(mode.Deterministic)
	res2, err := e2.RecordConsensusEvent(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, res2)

	assert.Equal(t, res1.MIDIBuffer, res2.MIDIBuffer)
	assert.Equal(t, res1.Verse.Verse, res2.Verse.Verse)
	assert.Equal(t, res1.Profile, res2.Profile)
}

func TestEvolveDecisionReturnsWellFormedDecision(t *testing.T) {
	e := NewEngine()
	d := e.EvolveDecision(map[string]float64{"creativity": 0.6})
	assert.NotEmpty(t, d.TypeID)
	assert.GreaterOrEqual(t, d.RiskLevel, 0.0)
	assert.LessOrEqual(t, d.RiskLevel, 1.0)
}
