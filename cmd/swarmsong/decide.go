package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmsong/engine/internal/swarmsong"
)

func newDecideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Generate one fresh EvolutionaryDecision under the engine's current mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := swarmsong.NewEngine()
			decision := engine.EvolveDecision(nil)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(decision)
		},
	}
	return cmd
}
