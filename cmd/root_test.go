package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleProject = filepath.Join("..", "infra", "source", "testdata", "project.yaml")

// execute runs the CLI with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, outputFormat, projectFile, activities, dependencies, projectURL = "", formatJSON, "", "", "", ""
	targets, criticalPath, degenerate, riskResource = nil, nil, "", ""
	serveMetrics, historyDB, historyProject = false, "pmsched.db", ""
	var reset func(*cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		c.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScheduleCSV(t *testing.T) {
	out, err := execute(t, "schedule", "-f", sampleProject, "-o", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "# schedule", lines[0])
	assert.Equal(t, "id,duration,predecessors,es,ef,ls,lf,total_float,critical", lines[1])
	assert.Len(t, lines, 2+36)
}

func TestPertTargets(t *testing.T) {
	out, err := execute(t, "pert", "-f", sampleProject, "--target", "177", "--target", "185")
	require.NoError(t, err)
	var rep struct {
		HighRisk    []string `json:"high_risk"`
		Completions []struct {
			Target      float64 `json:"target"`
			Probability float64 `json:"probability"`
		} `json:"completions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Completions, 2)
	assert.InDelta(t, 0.1125413, rep.Completions[0].Probability, 1e-6)
	assert.InDelta(t, 0.747058, rep.Completions[1].Probability, 1e-6)
	assert.Contains(t, rep.HighRisk, "K")
}

func TestRiskResourceFlag(t *testing.T) {
	out, err := execute(t, "risk", "-f", sampleProject, "--resource", "foremen")
	require.NoError(t, err)
	var rep struct {
		Resource string `json:"resource"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "foremen", rep.Resource)
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	abs, err := filepath.Abs(sampleProject)
	require.NoError(t, err)
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`project:
  file: `+abs+`
metrics:
  sinks:
    - type: sqlite
      conf:
        path: `+db+`
`), 0o600))

	out, err := execute(t, "analyze", "-c", cfg)
	require.NoError(t, err)
	var rep map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Office fit-out", rep["project"])
	assert.Contains(t, rep, "performance")

	out, err = execute(t, "history", "--db", db, "--project", "Office fit-out")
	require.NoError(t, err)
	var runs []struct {
		RunID    string   `json:"run_id"`
		Duration int      `json:"duration"`
		SPI      *float64 `json:"spi"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, rep["run_id"], runs[0].RunID)
	assert.Equal(t, 177, runs[0].Duration)
	assert.NotNil(t, runs[0].SPI)
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "schedule", "-f", sampleProject, "-o", "xml")
	assert.Error(t, err)

	_, err = execute(t, "schedule")
	assert.Error(t, err)

	_, err = execute(t, "pert", "-f", sampleProject, "--degenerate", "maybe")
	assert.Error(t, err)
}

func TestUnestimatedCriticalPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`name: partial
activities:
  - {id: A, duration: 5, predecessors: "-", budget_cost: 100, percent_complete: 50}
  - {id: B, duration: 3, predecessors: "A", budget_cost: 50}
  - id: C
    duration: 1
    predecessors: "-"
    estimate: {optimistic: 1, most_likely: 1, pessimistic: 3}
`), 0o644))

	out, err := execute(t, "schedule", "-f", file)
	require.NoError(t, err)
	var sched struct {
		Duration int      `json:"duration"`
		Critical []string `json:"critical"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sched))
	assert.Equal(t, 8, sched.Duration)
	assert.Equal(t, []string{"A", "B"}, sched.Critical)

	_, err = execute(t, "evm", "-f", file)
	require.NoError(t, err)

	_, err = execute(t, "pert", "-f", file)
	assert.ErrorContains(t, err, "degenerate variance")

	out, err = execute(t, "pert", "-f", file, "--degenerate", "step")
	require.NoError(t, err)
	assert.Contains(t, out, `"deterministic": true`)
}
