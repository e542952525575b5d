// Package swarmsong orchestrates the full pipeline (C4-C12): a
// consensus event in, a persisted poetry + MIDI record out, gated by
// basic quality and coupled per spec.md §7's persistence invariants.
package swarmsong

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/swarmsong/engine/internal/clock"
	"github.com/swarmsong/engine/internal/composer"
	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/evolution"
	"github.com/swarmsong/engine/internal/feedback"
	"github.com/swarmsong/engine/internal/midiserial"
	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/persistence"
	"github.com/swarmsong/engine/internal/poet"
	"github.com/swarmsong/engine/internal/prng"
	"github.com/swarmsong/engine/internal/quality"
	"github.com/swarmsong/engine/internal/swarmerr"
	"github.com/swarmsong/engine/internal/vitals"
)

// Engine wires the mode manager, vitals provider, persistence adapter,
// and stateful poetic composer into the single entry point spec.md §6
// names: record_consensus_event.
type Engine struct {
	Modes         *mode.Manager
	VitalsSource  vitals.Provider
	Store         *persistence.Client
	Clock         clock.Clock
	Verses        *poet.Composer
	Feedback      *feedback.History
	MIDIOutputDir string
}

// NewEngine builds an Engine with a fresh Balanced mode manager, a
// neutral vitals provider, a fresh verse composer, and no persistence
// (callers needing Redis set the Store field separately).
func NewEngine() *Engine {
	return &Engine{
		Modes:        mode.NewManager(),
		VitalsSource: vitals.StaticProvider{Snapshot: vitals.Neutral()},
		Clock:        clock.SystemClock{},
		Verses:       poet.NewComposer(),
		Feedback:     feedback.NewHistory(1000),
	}
}

// PipelineResult is everything produced for one accepted event: the
// symphony, the verse, the quality profile, and the classification.
type PipelineResult struct {
	Symphony       composer.Symphony
	Verse          poet.Record
	Profile        quality.Profile
	Classification quality.Classification
	MIDIBuffer     []byte
}

// RecordConsensusEvent is the CLI/boundary entry point of spec.md §6:
// ConsensusResult -> Option<PoetryRecord>, modeled as (*PipelineResult,
// nil) on success or (nil, nil) when the quality gate silently rejects,
// or (nil, err) for every other typed failure.
func (e *Engine) RecordConsensusEvent(ctx context.Context, r consensus.Result) (*PipelineResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	m := e.Modes.Get()
	sym := composer.Compose(r, m)

	basicQuality := quality.BasicQuality(r, sym)
	if basicQuality < quality.BasicQualityGate {
		log.Printf("swarmsong: quality gate rejected event (basic_quality=%.3f)", basicQuality)
		return nil, nil
	}

	v := vitals.Neutral()
	if e.VitalsSource != nil {
		v = e.VitalsSource.Current()
	}

	clk := e.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}

	verse, err := e.Verses.Compose(r, m, v, clk)
	if err != nil {
		return nil, swarmerr.New(swarmerr.LexiconMissing, err)
	}

	fibSeed := uint32(prng.Hash(r.Serialize()))
	profile := quality.Evaluate(r, sym, verse, v, fibSeed)
	classification := quality.Classify(profile)

	midiBuf, err := midiserial.EncodeForStorage(sym, basicQuality)
	if err != nil {
		return nil, swarmerr.New(swarmerr.SerializerError, err)
	}

	recordID := contentRecordID(r)

	var midiPath string
	if e.MIDIOutputDir != "" {
		midiPath, err = writeMIDIFile(e.MIDIOutputDir, recordID, midiBuf)
		if err != nil {
			return nil, swarmerr.New(swarmerr.SerializerError, err)
		}
	}

	result := &PipelineResult{
		Symphony:       sym,
		Verse:          verse,
		Profile:        profile,
		Classification: classification,
		MIDIBuffer:     midiBuf,
	}

	if e.Store != nil {
		if err := e.persist(ctx, r, result, basicQuality, recordID, midiPath); err != nil {
			return nil, swarmerr.New(swarmerr.PersistenceError, err)
		}
	}

	return result, nil
}

// writeMIDIFile writes buf to <dir>/<id>.mid, the on-disk half of C11
// spec.md §5 lists as its own suspension point. A write failure deletes
// whatever was partially written, per §7's SerializerError rule.
func writeMIDIFile(dir, id string, buf []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, id+".mid")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (e *Engine) persist(ctx context.Context, r consensus.Result, result *PipelineResult, basicQuality float64, recordID, midiPath string) error {
	if err := e.Store.SetConsensusLatest(ctx, persistence.ConsensusSummary{
		Participants:      r.Participants,
		ConsensusAchieved: r.ConsensusAchieved,
		Beauty:            r.Beauty,
		Timestamp:         result.Verse.Timestamp,
	}); err != nil {
		return err
	}

	if err := e.Store.PushPoem(ctx, persistence.PoemRecord{
		ID:              recordID,
		Verse:           result.Verse.Verse,
		AdvancedQuality: basicQuality,
		Profile:         result.Profile,
		Timestamp:       result.Verse.Timestamp,
	}); err != nil {
		return err
	}

	if result.Classification != quality.Rejected {
		if err := e.Store.PushArt(ctx, persistence.ArtRecord{
			ID:             recordID,
			Classification: string(result.Classification),
			Profile:        result.Profile,
			Timestamp:      result.Verse.Timestamp,
		}); err != nil {
			return err
		}
	}

	return e.Store.PushMidiRecording(ctx, persistence.MidiRecordingMeta{
		ID:              recordID,
		Path:            midiPath,
		SizeBytes:       len(result.MIDIBuffer),
		Compressed:      midiserial.IsGzip(result.MIDIBuffer),
		DurationSeconds: result.Symphony.DurationSeconds,
		NoteCount:       len(result.Symphony.Notes),
		Timestamp:       result.Verse.Timestamp,
	})
}

// contentRecordID derives the artifact id spec.md §4.10 requires: a
// content hash of the triggering consensus event, not a random token,
// so retrying the same event is idempotent instead of duplicating rows
// in poems:nft/art:*/midi:recordings.
func contentRecordID(r consensus.Result) string {
	return fmt.Sprintf("%016x", prng.Hash(r.Serialize()))
}

// EvolveDecision runs the Evolutionary Decision Generator (C10) against
// the engine's current vitals, feedback history, and active mode.
func (e *Engine) EvolveDecision(metrics map[string]float64) evolution.Decision {
	v := vitals.Neutral()
	if e.VitalsSource != nil {
		v = e.VitalsSource.Current()
	}
	clk := e.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	ctx := evolution.Context{
		Vitals:          v,
		Metrics:         metrics,
		FeedbackHistory: e.Feedback,
	}
	return evolution.Generate(ctx, e.Modes.Get(), clk)
}
