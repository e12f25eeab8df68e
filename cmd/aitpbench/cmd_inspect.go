package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielpatrickdp/aitp-bench/internal/config"
	"github.com/danielpatrickdp/aitp-bench/internal/logging"
	"github.com/danielpatrickdp/aitp-bench/internal/report"
	"github.com/danielpatrickdp/aitp-bench/internal/state"
	"github.com/spf13/cobra"
)

// #region inspect-cmd

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [run-id]",
		Short: "List recorded runs or show one run in full",
		Long: `Without an argument, inspect lists the recorded runs, newest first.
With a run id (a unique prefix is enough), it shows the run's
parameters, every recorded table, and its event trail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := state.NewStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open run history %s: %w", cfg.DBPath, err)
			}
			defer store.Close()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if len(args) == 1 {
				return inspectDetail(cmd, store, args[0], jsonOut)
			}
			last, _ := cmd.Flags().GetInt("last")
			return inspectList(cmd, store, last, jsonOut)
		},
	}

	cmd.Flags().Int("last", 20, "Show the N most recent runs")
	cmd.Flags().String("db", "", "Run history database path (default from config)")
	cmd.Flags().String("config", "", "Config file (default "+config.DefaultFile+" when present)")

	return cmd
}

// #endregion inspect-cmd

// #region list-mode

type runRow struct {
	RunID      string   `json:"run_id"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
	Status     string   `json:"status"`
	Population int      `json:"population"`
	Epsilon    float64  `json:"epsilon"`
	DurationS  float64  `json:"duration_s"`
	Strategies []string `json:"strategies"`
	SweepSizes []int    `json:"sweep_sizes"`
	GateOK     bool     `json:"gate_ok"`
}

func toRunRow(rec state.RunRecord) runRow {
	row := runRow{
		RunID:      rec.RunID,
		StartedAt:  rec.StartedAt.Format(time.RFC3339),
		Status:     rec.Status,
		Population: rec.Population,
		Epsilon:    rec.Epsilon,
		DurationS:  rec.DurationS,
		Strategies: rec.Strategies,
		SweepSizes: rec.SweepSizes,
		GateOK:     rec.GateOK,
	}
	if !rec.FinishedAt.IsZero() {
		row.FinishedAt = rec.FinishedAt.Format(time.RFC3339)
	}
	return row
}

func inspectList(cmd *cobra.Command, store *state.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}

	if jsonOut {
		rows := make([]runRow, len(runs))
		for i, r := range runs {
			rows[i] = toRunRow(r)
		}
		return printJSON(cmd.OutOrStdout(), rows)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.RunList(runs))
	return nil
}

// #endregion list-mode

// #region detail-mode

type inspectTable struct {
	TableID string    `json:"table_id"`
	Sizes   []int     `json:"sizes"`
	Values  []float64 `json:"values"`
	Draws   []float64 `json:"draws,omitempty"`
}

type inspectEvent struct {
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type detailOutput struct {
	Run          runRow          `json:"run"`
	OutputDir    string          `json:"output_dir"`
	Environment  json.RawMessage `json:"environment,omitempty"`
	GateFindings json.RawMessage `json:"gate_findings,omitempty"`
	Tables       []inspectTable  `json:"tables"`
	Events       []inspectEvent  `json:"events,omitempty"`
}

func inspectDetail(cmd *cobra.Command, store *state.Store, prefix string, jsonOut bool) error {
	id, err := store.ResolveRunID(prefix)
	if err != nil {
		return err
	}
	rec, err := store.GetRun(id)
	if err != nil {
		return err
	}
	points, err := store.GetSeries(id)
	if err != nil {
		return err
	}
	events, err := logging.ListEvents(store.DB(), id)
	if err != nil {
		return err
	}

	if jsonOut {
		out := detailOutput{
			Run:       toRunRow(rec),
			OutputDir: rec.OutputDir,
			Tables:    groupTables(points),
		}
		if rec.Environment != "" {
			out.Environment = json.RawMessage(rec.Environment)
		}
		if rec.GateFindings != "" {
			out.GateFindings = json.RawMessage(rec.GateFindings)
		}
		for _, e := range events {
			out.Events = append(out.Events, inspectEvent{
				Kind:      e.Kind,
				Detail:    e.Detail,
				CreatedAt: e.CreatedAt.Format(time.RFC3339),
			})
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	fmt.Fprint(cmd.OutOrStdout(), report.RunDetail(rec, points, events))
	return nil
}

// groupTables folds the flat series points back into per-table slices.
// Points arrive in store order (seq, then idx), so consecutive runs of
// one seq value form one table.
func groupTables(points []state.SeriesRow) []inspectTable {
	var tables []inspectTable
	curSeq := -1
	for _, p := range points {
		if p.Seq != curSeq {
			tables = append(tables, inspectTable{TableID: p.Strategy + "_" + p.Metric})
			curSeq = p.Seq
		}
		tab := &tables[len(tables)-1]
		tab.Sizes = append(tab.Sizes, p.N)
		tab.Values = append(tab.Values, p.Value)
		if p.HasDraw {
			tab.Draws = append(tab.Draws, p.Draw)
		}
	}
	return tables
}

// #endregion detail-mode
