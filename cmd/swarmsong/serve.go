package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/persistence"
	"github.com/swarmsong/engine/internal/swarmsong"
)

func newServeCmd() *cobra.Command {
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the long-lived mode listener: applies control:commands to the active Mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store := persistence.NewClient(cfg.RedisAddr, nil)
			defer store.Close()

			engine := swarmsong.NewEngine()
			engine.Modes.SetMode(cfg.DefaultMode)
			engine.Store = store
			engine.MIDIOutputDir = cfg.MIDIOutputDir

			return runModeListener(ctx, store, engine.Modes)
		},
	}

	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "override the configured Redis address")
	return cmd
}

// runModeListener applies set_mode commands published on
// control:commands to manager, and apply/reject suggestion commands to
// store, blocking until ctx is cancelled.
func runModeListener(ctx context.Context, store *persistence.Client, manager *mode.Manager) error {
	log.Printf("swarmsong: listening for control commands")

	sub := store.Subscribe(ctx)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Printf("swarmsong: shutting down")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			applyCommand(ctx, []byte(msg.Payload), manager, store)
		}
	}
}

func applyCommand(ctx context.Context, payload []byte, manager *mode.Manager, store *persistence.Client) {
	cmd, err := persistence.DecodeCommand(payload)
	if err != nil {
		log.Printf("swarmsong: dropping malformed command: %v", err)
		return
	}

	switch cmd.Type {
	case persistence.CommandSetMode:
		switch {
		case cmd.Mode == "custom" && cmd.CustomConfig != nil:
			manager.SetCustomMode(mode.CustomConfig(
				cmd.CustomConfig.EntropyFactor,
				cmd.CustomConfig.RiskThreshold,
				cmd.CustomConfig.PunkProbability,
				cmd.CustomConfig.FeedbackInfluence,
			))
		case cmd.Mode == "deterministic":
			manager.SetMode(mode.Deterministic)
		case cmd.Mode == "punk":
			manager.SetMode(mode.Punk)
		default:
			manager.SetMode(mode.Balanced)
		}
		if err := store.SetOptimizationMode(ctx, manager.Get().Preset.String()); err != nil {
			log.Printf("swarmsong: publishing optimization:mode: %v", err)
		}
	case persistence.CommandApplySuggestion:
		if _, err := store.ApplySuggestion(ctx, cmd.SuggestionID); err != nil {
			log.Printf("swarmsong: applying suggestion %s: %v", cmd.SuggestionID, err)
		}
	case persistence.CommandRejectSuggestion:
		if _, err := store.RejectSuggestion(ctx, cmd.SuggestionID); err != nil {
			log.Printf("swarmsong: rejecting suggestion %s: %v", cmd.SuggestionID, err)
		}
	default:
		// request_suggestion_update is not dispatched by this listener:
		// it is dropped here and the pending list is not republished.
	}
}
