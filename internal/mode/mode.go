// Package mode implements the engine's four-knob behavioral policy:
// ModeConfig and the process-wide ModeManager that mutates it atomically.
package mode

import "sync"

// Preset names the fixed policy families a ModeConfig can belong to.
type Preset int

const (
	// Custom is a user-supplied knob combination, not one of the three
	// named presets.
	Custom Preset = iota
	Deterministic
	Balanced
	Punk
)

func (p Preset) String() string {
	switch p {
	case Deterministic:
		return "deterministic"
	case Balanced:
		return "balanced"
	case Punk:
		return "punk"
	default:
		return "custom"
	}
}

// Config is the policy object threaded through every generator. All four
// knobs are clamped to [0,100] on construction and on every mutation.
type Config struct {
	Preset            Preset
	EntropyFactor     float64
	RiskThreshold     float64
	PunkProbability   float64
	FeedbackInfluence float64
	// FeedbackAdjusted marks a Custom config that adjust_from_feedback
	// derived from Balanced; only such configs (or Balanced itself)
	// auto-adjust further.
	FeedbackAdjusted bool
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func newConfig(preset Preset, entropy, risk, punk, feedback float64) Config {
	return Config{
		Preset:            preset,
		EntropyFactor:     clamp(entropy),
		RiskThreshold:     clamp(risk),
		PunkProbability:   clamp(punk),
		FeedbackInfluence: clamp(feedback),
	}
}

// DeterministicConfig returns the Deterministic preset (0,10,0,0).
func DeterministicConfig() Config { return newConfig(Deterministic, 0, 10, 0, 0) }

// BalancedConfig returns the Balanced preset (50,40,30,50).
func BalancedConfig() Config { return newConfig(Balanced, 50, 40, 30, 50) }

// PunkConfig returns the Punk preset (100,70,80,100).
func PunkConfig() Config { return newConfig(Punk, 100, 70, 80, 100) }

// CustomConfig builds a Custom config, clamping every knob.
func CustomConfig(entropy, risk, punk, feedback float64) Config {
	return newConfig(Custom, entropy, risk, punk, feedback)
}

// adjustableFromFeedback reports whether this config's knobs may still be
// reshaped by adjust_from_feedback: only Balanced itself, or a Custom
// config previously derived from Balanced via feedback.
func (c Config) adjustableFromFeedback() bool {
	return c.Preset == Balanced || (c.Preset == Custom && c.FeedbackAdjusted)
}

// Manager owns the single active Config and serializes every mutation
// behind a mutex, replacing the config wholesale (copy-on-write) rather
// than mutating fields in place. Readers take a cheap copy.
type Manager struct {
	mu     sync.Mutex
	active Config
}

// NewManager returns a Manager initialized to Balanced, matching Reset.
func NewManager() *Manager {
	return &Manager{active: BalancedConfig()}
}

// Get returns a copy of the active config.
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SetMode replaces the active config with a named preset.
func (m *Manager) SetMode(p Preset) {
	var next Config
	switch p {
	case Deterministic:
		next = DeterministicConfig()
	case Punk:
		next = PunkConfig()
	default:
		next = BalancedConfig()
	}
	m.mu.Lock()
	m.active = next
	m.mu.Unlock()
}

// SetCustomMode replaces the active config with a user-supplied custom
// config. Out-of-range knob values are clamped, never rejected
// (ModeInvalid never surfaces as an error per spec.md §7).
func (m *Manager) SetCustomMode(cfg Config) {
	cfg = newConfig(Custom, cfg.EntropyFactor, cfg.RiskThreshold, cfg.PunkProbability, cfg.FeedbackInfluence)
	m.mu.Lock()
	m.active = cfg
	m.mu.Unlock()
}

// AdjustFromFeedback applies a human rating in [0,10] to the active
// config, per spec.md §4.3. A no-op outside the Balanced/feedback-derived
// lineage, and a no-op for ratings in [4,7].
func (m *Manager) AdjustFromFeedback(rating float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active.adjustableFromFeedback() {
		return
	}

	cur := m.active
	switch {
	case rating > 7:
		m.active = Config{
			Preset:            Custom,
			EntropyFactor:     clamp(cur.EntropyFactor + 10),
			RiskThreshold:     clamp(cur.RiskThreshold + 5),
			PunkProbability:   clamp(cur.PunkProbability + 10),
			FeedbackInfluence: cur.FeedbackInfluence,
			FeedbackAdjusted:  true,
		}
	case rating < 4:
		m.active = Config{
			Preset:            Custom,
			EntropyFactor:     clamp(cur.EntropyFactor - 10),
			RiskThreshold:     clamp(cur.RiskThreshold - 5),
			PunkProbability:   clamp(cur.PunkProbability - 10),
			FeedbackInfluence: cur.FeedbackInfluence,
			FeedbackAdjusted:  true,
		}
	default:
		// ratings in [4,7]: no-op
	}
}

// Reset restores Balanced.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.active = BalancedConfig()
	m.mu.Unlock()
}
