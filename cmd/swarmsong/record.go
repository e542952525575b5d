package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swarmsong/engine/internal/config"
	"github.com/swarmsong/engine/internal/consensus"
	"github.com/swarmsong/engine/internal/persistence"
	"github.com/swarmsong/engine/internal/swarmsong"
)

func newRecordCmd() *cobra.Command {
	var inputPath string
	var redisAddr string
	noPersist := config.ParseBoolEnv("SWARMSONG_NO_PERSIST", false)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Feed one ConsensusResult through the engine and print the resulting record",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}

			r, err := readConsensusResult(inputPath)
			if err != nil {
				return err
			}

			engine := swarmsong.NewEngine()
			engine.MIDIOutputDir = cfg.MIDIOutputDir
			if !noPersist {
				store := persistence.NewClient(cfg.RedisAddr, nil)
				defer store.Close()
				engine.Store = store
			}

			result, err := engine.RecordConsensusEvent(context.Background(), r)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Println(`{"accepted": false}`)
				return nil
			}

			out := map[string]any{
				"accepted":       true,
				"verse":          result.Verse.Verse,
				"zodiacSign":     result.Verse.ZodiacSign,
				"classification": string(result.Classification),
				"noteCount":      len(result.Symphony.Notes),
				"midiBytes":      len(result.MIDIBuffer),
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "-", "path to a JSON ConsensusResult, or - for stdin")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "override the configured Redis address")
	cmd.Flags().BoolVar(&noPersist, "no-persist", noPersist, "run the pipeline without writing to Redis (default from SWARMSONG_NO_PERSIST)")

	return cmd
}

func readConsensusResult(path string) (consensus.Result, error) {
	var raw []byte
	var err error
	if path == "-" || path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return consensus.Result{}, fmt.Errorf("reading consensus result: %w", err)
	}

	var r consensus.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return consensus.Result{}, fmt.Errorf("parsing consensus result: %w", err)
	}
	return r, nil
}
