// Package midiserial implements the MIDI Serializer (C11): encoding an
// in-memory Symphony into a Standard MIDI File (Format 0, 96 PPQ, 120
// BPM), gzip-compressing it when warranted, and decoding it back.
package midiserial

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/swarmsong/engine/internal/composer"
)

// PPQ is the pulses-per-quarter-note resolution spec.md §6 mandates.
const PPQ = 96

// BPM is the fixed tempo spec.md §6 mandates.
const BPM = 120

// ticksPerSecond converts wall-clock seconds to MIDI ticks at 120 BPM,
// 96 PPQ: a quarter note is 0.5s at 120 BPM, so 96 ticks span 0.5s.
const ticksPerSecond = PPQ * (BPM / 60)

// gzipSizeThreshold is one of the two independent triggers for gzip
// compression, per spec.md §6; the other is a quality below 0.8 (see
// EncodeForStorage).
const gzipSizeThreshold = 1024

var gzipMagic = []byte{0x1f, 0x8b}

// ErrEmptyBuffer is returned when a symphony has no notes to serialize.
var ErrEmptyBuffer = errors.New("midiserial: empty note buffer")

type tickEvent struct {
	tick  uint32
	on    bool
	pitch uint8
	vel   uint8
}

// Encode renders a Symphony to a raw (uncompressed) Standard MIDI File
// buffer, Format 0, single track, piano channel 0.
func Encode(sym composer.Symphony) ([]byte, error) {
	if len(sym.Notes) == 0 {
		return nil, ErrEmptyBuffer
	}

	events := make([]tickEvent, 0, len(sym.Notes)*2)
	for _, n := range sym.Notes {
		onTick := uint32(n.TimeSeconds * ticksPerSecond)
		offTick := uint32((n.TimeSeconds + n.DurationSeconds) * ticksPerSecond)
		if offTick <= onTick {
			offTick = onTick + 1
		}
		pitch := clampByte(n.Pitch)
		vel := clampByte(n.Velocity)
		events = append(events,
			tickEvent{tick: onTick, on: true, pitch: pitch, vel: vel},
			tickEvent{tick: offTick, on: false, pitch: pitch, vel: 0},
		)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		// note-offs before note-ons at the same tick avoid a spurious
		// re-trigger when one note ends exactly as another begins.
		return !events[i].on && events[j].on
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(PPQ)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(BPM))
	tr.Add(0, midi.ProgramChange(0, 0))

	var lastTick uint32
	for _, ev := range events {
		delta := ev.tick - lastTick
		lastTick = ev.tick
		if ev.on {
			tr.Add(delta, midi.NoteOn(0, ev.pitch, ev.vel))
		} else {
			tr.Add(delta, midi.NoteOff(0, ev.pitch))
		}
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeForStorage encodes a symphony and gzip-compresses the result
// when its size exceeds the threshold or quality is below the bar, per
// spec.md §6.
func EncodeForStorage(sym composer.Symphony, quality float64) ([]byte, error) {
	raw, err := Encode(sym)
	if err != nil {
		return nil, err
	}
	if len(raw) <= gzipSizeThreshold && quality >= 0.8 {
		return raw, nil
	}
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsGzip reports whether buf begins with the gzip magic bytes.
func IsGzip(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == gzipMagic[0] && buf[1] == gzipMagic[1]
}

// Decompress transparently gzip-decompresses buf when it carries the
// gzip magic, otherwise returns it unchanged.
func Decompress(buf []byte) ([]byte, error) {
	if !IsGzip(buf) {
		return buf, nil
	}
	gr, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

// DecodedNote is the round-trip tuple P11 requires: pitch, velocity,
// tick-time, and tick-duration, recovered from an SMF buffer.
type DecodedNote struct {
	Pitch        uint8
	Velocity     uint8
	StartTick    uint32
	DurationTick uint32
}

// Decode parses a (possibly gzip-compressed) SMF buffer back into the
// ordered note-on/note-off tuples it encodes.
func Decode(buf []byte) ([]DecodedNote, error) {
	raw, err := Decompress(buf)
	if err != nil {
		return nil, err
	}

	s, err := smf.ReadFrom(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if len(s.Tracks) == 0 {
		return nil, ErrEmptyBuffer
	}

	type openNote struct {
		startTick uint32
		velocity  uint8
	}
	open := make(map[uint8]openNote)
	var notes []DecodedNote

	var tick uint32
	for _, ev := range s.Tracks[0] {
		tick += ev.Delta

		var channel, key, velocity uint8
		if ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
			open[key] = openNote{startTick: tick, velocity: velocity}
			continue
		}
		isOff := ev.Message.GetNoteOff(&channel, &key, &velocity)
		if !isOff {
			if ev.Message.GetNoteOn(&channel, &key, &velocity) && velocity == 0 {
				isOff = true
			}
		}
		if isOff {
			if on, ok := open[key]; ok {
				notes = append(notes, DecodedNote{
					Pitch:        key,
					Velocity:     on.velocity,
					StartTick:    on.startTick,
					DurationTick: tick - on.startTick,
				})
				delete(open, key)
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].StartTick < notes[j].StartTick })
	return notes, nil
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
