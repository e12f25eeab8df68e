package main

import (
	"fmt"

	"github.com/danielpatrickdp/aitp-bench/internal/config"
	"github.com/danielpatrickdp/aitp-bench/internal/replay"
	"github.com/spf13/cobra"
)

// #region export-cmd

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a recorded run as a replay fixture",
		Long: `Export packages a recorded run — parameters, environment, every table and
its robustness draws — into a standalone JSON fixture. The fixture can be
checked into a repository and verified later with "aitpbench replay
--fixture", independent of the history database it came from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runPrefix, _ := cmd.Flags().GetString("run")
			outPath, _ := cmd.Flags().GetString("out")

			f, err := loadRunFixture(cmd, runPrefix)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = fmt.Sprintf("fixture_%s.json", shortID(f.RunID))
			}
			if err := replay.SaveFixture(outPath, f); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"status": "exported",
					"run_id": f.RunID,
					"path":   outPath,
					"tables": len(f.Tables),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported run %s to %s (%d tables)\n",
				shortID(f.RunID), outPath, len(f.Tables))
			return nil
		},
	}

	cmd.Flags().String("run", "", "Run to export (id prefix)")
	cmd.Flags().String("out", "", "Fixture path (default fixture_<run>.json)")
	cmd.Flags().String("db", "", "Run history database path (default from config)")
	cmd.Flags().String("config", "", "Config file (default "+config.DefaultFile+" when present)")
	cmd.MarkFlagRequired("run")

	return cmd
}

// #endregion export-cmd
