package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danielpatrickdp/aitp-bench/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// #region main

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aitpbench",
		Short: "Comparative protocol-strategy benchmark over a modeled wireless deployment",
		Long: `aitpbench evaluates the AITP, CAIP, and NAP protocol strategies over a
modeled wireless deployment and reports five metrics per swept
population size: latency, throughput, energy efficiency, privacy loss,
and robustness.

Each run appends one row per strategy-metric pair to its
results_{strategy}_{metric}.csv table and records the run, including
the robustness draws, in a local history database for inspection and
exact replay.`,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newRunCmd(),
		newInspectCmd(),
		newReplayCmd(),
		newExportCmd(),
	)
	return rootCmd
}

// #endregion main

// #region version

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "aitpbench version %s\n", version)
			}
		},
	}
}

// #endregion version

// #region helpers

// loadConfig resolves the effective configuration for a subcommand:
// defaults, then the config file (--config when the command has one,
// otherwise aitpbench.yaml when present), then AITPBENCH_* variables,
// then the shared flags the caller changed. Run-specific flag overrides
// are layered on top by the run command itself.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := ""
	if f := cmd.Flags().Lookup("config"); f != nil {
		path = f.Value.String()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion helpers
