package persistence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CommandType enumerates the four control:commands message kinds of
// spec.md §6.
type CommandType string

const (
	CommandApplySuggestion  CommandType = "apply_optimization_suggestion"
	CommandRejectSuggestion CommandType = "reject_suggestion"
	CommandSetMode          CommandType = "set_mode"
	CommandRequestUpdate    CommandType = "request_suggestion_update"
)

// CustomModeConfig is the four-knob payload a set_mode command carries
// when Mode == "custom", per spec.md §6's mode: "deterministic" |
// "balanced" | "punk" | CustomConfig union.
type CustomModeConfig struct {
	EntropyFactor     float64 `json:"entropyFactor"`
	RiskThreshold     float64 `json:"riskThreshold"`
	PunkProbability   float64 `json:"punkProbability"`
	FeedbackInfluence float64 `json:"feedbackInfluence"`
}

// Command is the decoded shape of a control:commands pub/sub message.
// Unused fields are zero-valued depending on Type.
type Command struct {
	Type         CommandType       `json:"type"`
	SuggestionID string            `json:"suggestionId,omitempty"`
	ApprovedBy   string            `json:"approvedBy,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Mode         string            `json:"mode,omitempty"`
	CustomConfig *CustomModeConfig `json:"customConfig,omitempty"`
}

// DecodeCommand parses a raw pub/sub payload into a Command.
func DecodeCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("persistence: decode command: %w", err)
	}
	return cmd, nil
}

// PublishCommand publishes a Command to control:commands.
func (c *Client) PublishCommand(ctx context.Context, cmd Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, KeyControlCommands, payload).Err()
}

// SetOptimizationMode stores the current mode name and publishes it on
// optimization:mode, per spec.md §6.
func (c *Client) SetOptimizationMode(ctx context.Context, modeName string) error {
	if err := c.rdb.Set(ctx, KeyOptimizationMode, modeName, 0).Err(); err != nil {
		return err
	}
	return c.rdb.Publish(ctx, KeyOptimizationMode, modeName).Err()
}

// CurrentOptimizationMode reads the current mode name.
func (c *Client) CurrentOptimizationMode(ctx context.Context) (string, error) {
	return c.rdb.Get(ctx, KeyOptimizationMode).Result()
}

// Subscribe opens a pub/sub subscription to control:commands. Callers
// must Close the returned PubSub when done.
func (c *Client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, KeyControlCommands)
}
