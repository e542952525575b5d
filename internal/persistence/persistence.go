// Package persistence implements the Redis-backed persistence adapter
// (C12): the list/hash/pub-sub surface of spec.md §6, with content-hash
// derived record ids and a pluggable artifact-signing boundary.
package persistence

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys are the fixed key names of spec.md §6's external interface table.
const (
	KeyConsensusLatest    = "consensus:latest"
	KeyConsensusHistory   = "consensus:history"
	KeyPoemsNFT           = "poems:nft"
	KeyArtLegendary       = "art:legendary"
	KeyArtExperimental    = "art:experimental"
	KeyArtCommon          = "art:common"
	KeyMidiRecordings     = "midi:recordings"
	KeyPendingSuggestions = "evolution:pending_suggestions"
	KeyControlCommands    = "control:commands"
	KeyOptimizationMode   = "optimization:mode"
)

const (
	capConsensusHistory = 100
	capPoemsNFT         = 100
	capArtExperimental  = 50
	capArtCommon        = 100
	capMidiRecordings   = 100
)

// Client wraps a *redis.Client with the engine's key-level operations.
// It is the only shared mutable boundary in the engine (spec.md §5) and
// serializes its own writes per key via Redis's own command atomicity
// and, for the pending-suggestions key, an explicit WATCH/MULTI
// transaction.
type Client struct {
	rdb    *redis.Client
	signer Signer
}

// NewClient dials a Redis instance at addr using the given signer. A
// nil signer defaults to StubSigner.
func NewClient(addr string, signer Signer) *Client {
	if signer == nil {
		signer = StubSigner{}
	}
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		signer: signer,
	}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// pushCapped left-pushes a JSON-encoded payload onto key and trims the
// list to cap entries when cap > 0 (0 means unbounded, per art:legendary).
func (c *Client) pushCapped(ctx context.Context, key string, payload []byte, cap int) error {
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, key, payload)
	if cap > 0 {
		pipe.LTrim(ctx, key, 0, int64(cap-1))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// SetConsensusLatest stores the most recent consensus summary and
// pushes it onto the rolling history, per spec.md §6.
func (c *Client) SetConsensusLatest(ctx context.Context, summary ConsensusSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, KeyConsensusLatest, payload, 0).Err(); err != nil {
		return err
	}
	return c.pushCapped(ctx, KeyConsensusHistory, payload, capConsensusHistory)
}

// ConsensusSummary is the hash/list value stored for consensus:latest
// and consensus:history.
type ConsensusSummary struct {
	Participants      []string  `json:"participants"`
	ConsensusAchieved bool      `json:"consensusAchieved"`
	Beauty            float64   `json:"beauty"`
	Timestamp         time.Time `json:"timestamp"`
}

// PushPoem stores an accepted poem with its advanced quality score and
// profile, per poems:nft.
func (c *Client) PushPoem(ctx context.Context, rec PoemRecord) error {
	rec.VeritasSignature = c.signer.Sign(rec.ID)
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.pushCapped(ctx, KeyPoemsNFT, payload, capPoemsNFT)
}

// PoemRecord is the persisted shape pushed to poems:nft.
type PoemRecord struct {
	ID               string      `json:"id"`
	Verse            string      `json:"verse"`
	AdvancedQuality  float64     `json:"advancedQuality"`
	Profile          interface{} `json:"profile"`
	VeritasSignature string      `json:"veritasSignature"`
	Timestamp        time.Time   `json:"timestamp"`
}

// ArtRecord is the persisted shape pushed to one of the three
// classification-partitioned art lists.
type ArtRecord struct {
	ID               string      `json:"id"`
	Classification   string      `json:"classification"`
	Profile          interface{} `json:"profile"`
	VeritasSignature string      `json:"veritasSignature"`
	Timestamp        time.Time   `json:"timestamp"`
}

// PushArt routes a classified artifact to its list: art:legendary is
// never trimmed, art:experimental caps at 50, art:common caps at 100.
// "rejected" records are never pushed (the caller is expected not to
// call PushArt for them).
func (c *Client) PushArt(ctx context.Context, rec ArtRecord) error {
	rec.VeritasSignature = c.signer.Sign(rec.ID)
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	switch rec.Classification {
	case "legendary":
		return c.pushCapped(ctx, KeyArtLegendary, payload, 0)
	case "experimental":
		return c.pushCapped(ctx, KeyArtExperimental, payload, capArtExperimental)
	case "common":
		return c.pushCapped(ctx, KeyArtCommon, payload, capArtCommon)
	default:
		return nil
	}
}

// MidiRecordingMeta is the metadata entry stored per MIDI file, per
// midi:recordings.
type MidiRecordingMeta struct {
	ID              string    `json:"id"`
	Path            string    `json:"path"`
	SizeBytes       int       `json:"sizeBytes"`
	Compressed      bool      `json:"compressed"`
	DurationSeconds float64   `json:"durationSeconds"`
	NoteCount       int       `json:"noteCount"`
	Timestamp       time.Time `json:"timestamp"`
}

// PushMidiRecording records metadata for a persisted MIDI file.
func (c *Client) PushMidiRecording(ctx context.Context, meta MidiRecordingMeta) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.pushCapped(ctx, KeyMidiRecordings, payload, capMidiRecordings)
}
