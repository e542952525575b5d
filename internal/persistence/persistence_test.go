package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubSignerIsDeterministicAndLabeled(t *testing.T) {
	s := StubSigner{}
	sig1 := s.Sign("abc")
	sig2 := s.Sign("abc")
	assert.Equal(t, sig1, sig2)
	assert.Contains(t, sig1, "abc")
	assert.Contains(t, sig1, "veritas-stub")
}

func TestDecodeCommandApplySuggestion(t *testing.T) {
	payload := []byte(`{"type":"apply_optimization_suggestion","suggestionId":"sug-1","approvedBy":"operator"}`)
	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, CommandApplySuggestion, cmd.Type)
	assert.Equal(t, "sug-1", cmd.SuggestionID)
	assert.Equal(t, "operator", cmd.ApprovedBy)
}

func TestDecodeCommandSetMode(t *testing.T) {
	payload := []byte(`{"type":"set_mode","mode":"punk"}`)
	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, CommandSetMode, cmd.Type)
	assert.Equal(t, "punk", cmd.Mode)
}

func TestDecodeCommandSetModeCustom(t *testing.T) {
	payload := []byte(`{"type":"set_mode","mode":"custom","customConfig":{"entropyFactor":60,"riskThreshold":45,"punkProbability":35,"feedbackInfluence":55}}`)
	cmd, err := DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, CommandSetMode, cmd.Type)
	assert.Equal(t, "custom", cmd.Mode)
	require.NotNil(t, cmd.CustomConfig)
	assert.Equal(t, 60.0, cmd.CustomConfig.EntropyFactor)
	assert.Equal(t, 45.0, cmd.CustomConfig.RiskThreshold)
	assert.Equal(t, 35.0, cmd.CustomConfig.PunkProbability)
	assert.Equal(t, 55.0, cmd.CustomConfig.FeedbackInfluence)
}

func TestDecodeCommandInvalidJSON(t *testing.T) {
	_, err := DecodeCommand([]byte(`not json`))
	assert.Error(t, err)
}

func TestPoemRecordRoundTripsThroughJSON(t *testing.T) {
	rec := PoemRecord{ID: "p1", Verse: "a verse", AdvancedQuality: 0.9}
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	var out PoemRecord
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, rec.ID, out.ID)
	assert.Equal(t, rec.Verse, out.Verse)
	assert.Equal(t, rec.AdvancedQuality, out.AdvancedQuality)
}

func TestSuggestionRoundTripsThroughJSON(t *testing.T) {
	s := Suggestion{ID: "s1", TypeID: "entropy_spike_aggressive_global", RiskLevel: 0.4}
	payload, err := json.Marshal([]Suggestion{s})
	require.NoError(t, err)

	var out []Suggestion
	require.NoError(t, json.Unmarshal(payload, &out))
	require.Len(t, out, 1)
	assert.Equal(t, s.ID, out[0].ID)
	assert.Equal(t, s.RiskLevel, out[0].RiskLevel)
}
