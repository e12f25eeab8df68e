package main

import (
	"fmt"

	"github.com/danielpatrickdp/aitp-bench/internal/config"
	"github.com/danielpatrickdp/aitp-bench/internal/gate"
	"github.com/danielpatrickdp/aitp-bench/internal/logging"
	"github.com/danielpatrickdp/aitp-bench/internal/metrics"
	"github.com/danielpatrickdp/aitp-bench/internal/report"
	"github.com/danielpatrickdp/aitp-bench/internal/sink"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/danielpatrickdp/aitp-bench/internal/strategy"
	"github.com/danielpatrickdp/aitp-bench/internal/sweep"
	"github.com/danielpatrickdp/aitp-bench/internal/testbed"
	"github.com/spf13/cobra"
)

// #region run-cmd

func newRunCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the comparison sweep and write the results tables",
		Long: `Run evaluates every configured strategy over the configured population
sizes and appends one row per strategy-metric pair to its
results_{strategy}_{metric}.csv table under the output directory.

The run is recorded in the history database together with the uniform
draws behind the robustness column, so 'aitpbench replay' can reproduce
it exactly. Robustness varies between runs unless --seed is given; the
other four metrics are deterministic.

Examples:
  aitpbench run
  aitpbench run --epsilon 0.5 --sizes 50,100,200
  aitpbench run --fresh --out ./results --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())

			rec, err := sink.NewCSVSink(cfg.OutputDir, cfg.Fresh)
			if err != nil {
				return err
			}

			store, err := state.NewStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open run history %s: %w", cfg.DBPath, err)
			}
			defer store.Close()

			var src metrics.Source = metrics.SystemSource{}
			if cfg.Seed != 0 {
				src = metrics.NewSeededSource(cfg.Seed)
			}

			runner := sweep.NewRunner(rec, store, src, gate.NewGate(gate.DefaultGateConfig()), logger)
			params := sweep.Params{
				Population: cfg.Population,
				Epsilon:    cfg.Epsilon,
				DurationS:  cfg.RunDuration,
				Strategies: strategy.IDs(cfg.Strategies),
				Sizes:      cfg.SweepSizes,
				OutputDir:  cfg.OutputDir,
				Seed:       cfg.Seed,
			}
			env := testbed.Plan(cfg.Population, cfg.RunDuration, cfg.Testbed)

			result, err := runner.Run(params, env)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Comparison(result))
			return nil
		},
	}

	cmd.Flags().Int("population", defaults.Population, "Selected run population (logging and testbed descriptor only)")
	cmd.Flags().Float64("epsilon", defaults.Epsilon, "Differential-privacy budget; smaller means stronger privacy")
	cmd.Flags().Float64("duration", defaults.RunDuration, "Modeled run time in seconds")
	cmd.Flags().String("sizes", "", "Comma-separated population sizes to sweep (default from config)")
	cmd.Flags().String("strategies", "", "Comma-separated strategies to compare (default from config)")
	cmd.Flags().String("out", defaults.OutputDir, "Directory for the results_*.csv tables")
	cmd.Flags().String("db", defaults.DBPath, "Run history database path")
	cmd.Flags().String("config", "", "Config file (default "+config.DefaultFile+" when present)")
	cmd.Flags().Bool("fresh", defaults.Fresh, "Truncate each results table at its first write instead of appending")
	cmd.Flags().Uint64("seed", defaults.Seed, "Fix the robustness draw sequence (0 = process-seeded)")

	return cmd
}

// #endregion run-cmd

// #region flag-overrides

// runConfig layers the run flags the caller set over the loaded
// configuration, then validates once. Flags left at their defaults do
// not clobber file or environment values.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("population") {
		cfg.Population, _ = flags.GetInt("population")
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon, _ = flags.GetFloat64("epsilon")
	}
	if flags.Changed("duration") {
		cfg.RunDuration, _ = flags.GetFloat64("duration")
	}
	if flags.Changed("strategies") {
		s, _ := flags.GetString("strategies")
		cfg.Strategies = config.SplitList(s)
	}
	if flags.Changed("sizes") {
		s, _ := flags.GetString("sizes")
		sizes, err := config.ParseSizes(s)
		if err != nil {
			return nil, fmt.Errorf("--sizes: %w", err)
		}
		cfg.SweepSizes = sizes
	}
	if flags.Changed("out") {
		cfg.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("fresh") {
		cfg.Fresh, _ = flags.GetBool("fresh")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// #endregion flag-overrides
