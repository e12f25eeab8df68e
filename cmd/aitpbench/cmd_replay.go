package main

import (
	"fmt"

	"github.com/danielpatrickdp/aitp-bench/internal/config"
	"github.com/danielpatrickdp/aitp-bench/internal/replay"
	"github.com/danielpatrickdp/aitp-bench/internal/report"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/spf13/cobra"
)

// #region replay-cmd

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Recompute a recorded run and verify every table",
		Long: `Replay recomputes every table of a recorded run from its parameters and
recorded robustness draws, then compares the recomputed values against
the recorded ones. The source is either a fixture file (--fixture) or a
run in the history database (--run, id prefix accepted).

A clean replay proves the recorded values follow from the recorded
inputs. Any mismatch is reported per table and exits nonzero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixturePath, _ := cmd.Flags().GetString("fixture")
			runPrefix, _ := cmd.Flags().GetString("run")
			if (fixturePath == "") == (runPrefix == "") {
				return fmt.Errorf("exactly one of --fixture or --run is required")
			}

			var f *replay.Fixture
			var err error
			if fixturePath != "" {
				f, err = replay.LoadFixture(fixturePath)
			} else {
				f, err = loadRunFixture(cmd, runPrefix)
			}
			if err != nil {
				return err
			}

			rep, err := replay.Replay(f)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if err := printJSON(cmd.OutOrStdout(), rep); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), report.ReplayText(rep))
			}

			if !rep.OK {
				return fmt.Errorf("replay mismatch: %d of %d tables differ",
					len(rep.Tables)-rep.Matched, len(rep.Tables))
			}
			return nil
		},
	}

	cmd.Flags().String("fixture", "", "Replay a fixture JSON file")
	cmd.Flags().String("run", "", "Replay a recorded run (id prefix)")
	cmd.Flags().String("db", "", "Run history database path (default from config)")
	cmd.Flags().String("config", "", "Config file (default "+config.DefaultFile+" when present)")

	return cmd
}

// #endregion replay-cmd

// #region db-extract

// loadRunFixture pulls one recorded run out of the history database and
// packages it as a replay fixture.
func loadRunFixture(cmd *cobra.Command, prefix string) (*replay.Fixture, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := state.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run history %s: %w", cfg.DBPath, err)
	}
	defer store.Close()

	id, err := store.ResolveRunID(prefix)
	if err != nil {
		return nil, err
	}
	rec, err := store.GetRun(id)
	if err != nil {
		return nil, err
	}
	points, err := store.GetSeries(id)
	if err != nil {
		return nil, err
	}
	return replay.FromRun(rec, points)
}

// #endregion db-extract
