package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/aitp-bench/internal/replay"
)

func TestExportCmd_RoundTrip(t *testing.T) {
	clearBenchEnv(t)
	tmp := t.TempDir()
	db := filepath.Join(tmp, "bench.db")
	id := seededRun(t, tmp, db)
	path := filepath.Join(tmp, "fix.json")

	out, err := executeCmd(t, "export", "--run", id[:8], "--db", db, "--out", path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "exported run "+id[:8]) || !strings.Contains(out, "(15 tables)") {
		t.Errorf("output = %q", out)
	}

	f, err := replay.LoadFixture(path)
	if err != nil {
		t.Fatalf("load exported fixture: %v", err)
	}
	if f.RunID != id {
		t.Errorf("fixture run id = %q, want %q", f.RunID, id)
	}
	if len(f.Tables) != 15 {
		t.Fatalf("%d tables, want 15", len(f.Tables))
	}
	if f.Params.Epsilon != 1 || len(f.Params.Sizes) != 2 {
		t.Errorf("params = %+v", f.Params)
	}
	if f.Environment.Stations == 0 {
		t.Error("fixture missing environment")
	}

	rep, err := replay.Replay(f)
	if err != nil {
		t.Fatalf("replay exported fixture: %v", err)
	}
	if !rep.OK {
		t.Errorf("exported fixture does not replay cleanly: %+v", rep)
	}
}

func TestExportCmd_DefaultPath(t *testing.T) {
	clearBenchEnv(t)
	tmp := t.TempDir()
	db := filepath.Join(tmp, "bench.db")
	id := seededRun(t, tmp, db)

	t.Chdir(tmp)
	if _, err := executeCmd(t, "export", "--run", id, "--db", db); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	want := filepath.Join(tmp, "fixture_"+id[:8]+".json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default fixture path not written: %v", err)
	}
}

func TestExportCmd_JSON(t *testing.T) {
	clearBenchEnv(t)
	tmp := t.TempDir()
	db := filepath.Join(tmp, "bench.db")
	id := seededRun(t, tmp, db)
	path := filepath.Join(tmp, "fix.json")

	out, err := executeCmd(t, "export", "--run", id, "--db", db, "--out", path, "--json")
	if err != nil {
		t.Fatalf("export --json failed: %v", err)
	}
	var got struct {
		Status string `json:"status"`
		RunID  string `json:"run_id"`
		Path   string `json:"path"`
		Tables int    `json:"tables"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got.Status != "exported" || got.RunID != id || got.Path != path || got.Tables != 15 {
		t.Errorf("output = %+v", got)
	}
}

func TestExportCmd_RequiresRun(t *testing.T) {
	clearBenchEnv(t)

	_, err := executeCmd(t, "export")
	if err == nil {
		t.Fatal("expected error without --run")
	}
	if !strings.Contains(err.Error(), `"run" not set`) {
		t.Errorf("error = %v, want required-flag failure", err)
	}
}

func TestExportCmd_UnknownRun(t *testing.T) {
	clearBenchEnv(t)
	tmp := t.TempDir()
	db := filepath.Join(tmp, "bench.db")
	seededRun(t, tmp, db)

	_, err := executeCmd(t, "export", "--run", "zzzz", "--db", db)
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	if !strings.Contains(err.Error(), "no run matching") {
		t.Errorf("error = %v, want no-match", err)
	}
}
