// Command swarmsong is the CLI entry point for the procedural swarm
// symphony engine: recording consensus events, inspecting and adjusting
// the active Mode, and generating evolutionary decisions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmsong/engine/internal/config"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "swarmsong",
		Short: "Deterministic procedural symphony + verse engine for swarm-consensus events",
	}

	root.PersistentFlags().StringVar(&cfgFile, "env-file", "", "path to a .env file to load (optional)")

	root.AddCommand(newRecordCmd())
	root.AddCommand(newModeCmd())
	root.AddCommand(newDecideCmd())
	root.AddCommand(newServeCmd())

	return root
}

func loadConfig() config.Config {
	config.LoadEnv(cfgFile)
	return config.FromEnvironment(config.Default())
}
