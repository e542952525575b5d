package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/swarmsong/engine/internal/mode"
	"github.com/swarmsong/engine/internal/persistence"
)

func newModeCmd() *cobra.Command {
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Inspect or change the running engine's active Mode",
	}
	cmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "override the configured Redis address")

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the currently published mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup := dialStore(redisAddr)
			defer cleanup()
			current, err := store.CurrentOptimizationMode(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(current)
			return nil
		},
	})

	var entropy, risk, punk, feedback float64
	setCmd := &cobra.Command{
		Use:   "set [deterministic|balanced|punk|custom]",
		Short: "Publish a set_mode command for the running engine to apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup := dialStore(redisAddr)
			defer cleanup()

			out := persistence.Command{Type: persistence.CommandSetMode, Mode: args[0]}
			if args[0] == "custom" {
				out.CustomConfig = &persistence.CustomModeConfig{
					EntropyFactor:     entropy,
					RiskThreshold:     risk,
					PunkProbability:   punk,
					FeedbackInfluence: feedback,
				}
			}
			return store.PublishCommand(context.Background(), out)
		},
	}
	setCmd.Flags().Float64Var(&entropy, "entropy", 50, "entropy_factor for mode=custom")
	setCmd.Flags().Float64Var(&risk, "risk", 40, "risk_threshold for mode=custom")
	setCmd.Flags().Float64Var(&punk, "punk", 30, "punk_probability for mode=custom")
	setCmd.Flags().Float64Var(&feedback, "feedback", 50, "feedback_influence for mode=custom")
	cmd.AddCommand(setCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "feedback <rating 0-10>",
		Short: "Apply a human rating to a fresh Balanced mode and print the resulting knobs",
		Long: "There is no pub/sub command for feedback in the external interface " +
			"(spec.md §6 lists only set_mode, apply/reject suggestion, and " +
			"request_suggestion_update); this is a standalone utility that runs " +
			"ModeManager.AdjustFromFeedback against a local Balanced manager.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("rating must be numeric: %w", err)
			}
			manager := mode.NewManager()
			manager.AdjustFromFeedback(rating)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(manager.Get())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Publish a set_mode command back to balanced",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup := dialStore(redisAddr)
			defer cleanup()
			return store.PublishCommand(context.Background(), persistence.Command{
				Type: persistence.CommandSetMode,
				Mode: "balanced",
			})
		},
	})

	return cmd
}

func dialStore(redisAddr string) (*persistence.Client, func()) {
	cfg := loadConfig()
	if redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}
	store := persistence.NewClient(cfg.RedisAddr, nil)
	return store, func() { store.Close() }
}
