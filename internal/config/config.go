// Package config centralizes the engine's runtime settings: Redis
// address, MIDI output directory, and default Mode preset. Values come
// from flags first, then environment variables (optionally loaded from
// a .env file), then built-in defaults.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/swarmsong/engine/internal/mode"
)

// Config is the resolved set of settings one Engine invocation needs.
type Config struct {
	RedisAddr     string
	MIDIOutputDir string
	DefaultMode   mode.Preset
}

// Default returns the built-in defaults, before any flag or
// environment override is applied.
func Default() Config {
	return Config{
		RedisAddr:     "localhost:6379",
		MIDIOutputDir: "./midi-output",
		DefaultMode:   mode.Balanced,
	}
}

// LoadEnv loads a .env file, if present, into the process environment.
// Any load error (a missing, unreadable or malformed file) is ignored
// without logging, matching the CLI's "never hard-fail on optional
// config" stance.
func LoadEnv(path string) {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// FromEnvironment overlays environment variables onto base, for every
// field that has a corresponding SWARMSONG_* variable set.
func FromEnvironment(base Config) Config {
	if v := os.Getenv("SWARMSONG_REDIS_ADDR"); v != "" {
		base.RedisAddr = v
	}
	if v := os.Getenv("SWARMSONG_MIDI_OUTPUT_DIR"); v != "" {
		base.MIDIOutputDir = v
	}
	if v := os.Getenv("SWARMSONG_DEFAULT_MODE"); v != "" {
		if p, ok := parsePreset(v); ok {
			base.DefaultMode = p
		}
	}
	return base
}

func parsePreset(s string) (mode.Preset, bool) {
	switch s {
	case "deterministic":
		return mode.Deterministic, true
	case "balanced":
		return mode.Balanced, true
	case "punk":
		return mode.Punk, true
	default:
		return mode.Custom, false
	}
}

// ParseBoolEnv is a small helper for boolean environment flags, used by
// cmd/swarmsong's record command to default --no-persist from
// SWARMSONG_NO_PERSIST. Defaults to def on absence or parse failure.
func ParseBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
