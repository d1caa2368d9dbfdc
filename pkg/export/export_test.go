package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pmsched/core/evm"
	"github.com/kilianp07/pmsched/core/pert"
	"github.com/kilianp07/pmsched/core/resource"
	"github.com/kilianp07/pmsched/core/risk"
	"github.com/kilianp07/pmsched/core/schedule"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []schedule.Node{{ID: "A", Duration: 2, EF: 2, LF: 2, Critical: true}}))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "A", out[0]["id"])
	assert.Equal(t, true, out[0]["critical"])
}

func TestScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	nodes := []schedule.Node{
		{ID: "A", Duration: 1, EF: 1, LF: 1, Critical: true},
		{ID: "D", Duration: 3, Predecessors: []string{"A", "B"}, ES: 1, EF: 4, LS: 8, LF: 11, TotalFloat: 7},
	}
	require.NoError(t, WriteCSV(&buf, ScheduleTable(nodes)))
	assert.Equal(t, "id,duration,predecessors,es,ef,ls,lf,total_float,critical\n"+
		"A,1,-,0,1,0,1,0,true\n"+
		"D,3,\"A,B\",1,4,8,11,7,false\n", buf.String())
}

func TestTimelineTable(t *testing.T) {
	p := &resource.Projection{
		Horizon: 2,
		Timelines: []resource.Timeline{
			{Kind: "foremen", Daily: []int{1, 1, 0}},
			{Kind: "workers", Daily: []int{2, 3, 0}},
		},
	}
	tbl := TimelineTable(p)
	assert.Equal(t, []string{"day", "foremen", "workers"}, tbl.Header)
	assert.Equal(t, [][]string{{"0", "1", "2"}, {"1", "1", "3"}, {"2", "0", "0"}}, tbl.Rows)
}

func TestCandidatesTable(t *testing.T) {
	tbl := CandidatesTable([]resource.LevelingCandidate{{ID: "O1", Float: 4, Resources: map[string]int{"workers": 2, "foremen": 1}}})
	assert.Equal(t, [][]string{{"O1", "4", "foremen=1;workers=2"}}, tbl.Rows)
}

func TestPertTables(t *testing.T) {
	est := pert.ActivityEstimate{ID: "B", Optimistic: 6, MostLikely: 8, Pessimistic: 12, Expected: 8.333333333333334,
		Variance: 1, StdDev: 1, CV: 0.12, Risk: pert.RiskMedium}
	tbl := EstimatesTable([]pert.ActivityEstimate{est})
	assert.Equal(t, []string{"B", "6", "8", "12", "8.333333333333334", "1", "1", "0.12", "Medium"}, tbl.Rows[0])

	comp := CompletionTable([]pert.Completion{{Target: 185, Expected: 182.5, StdDev: 5, Z: 0.5, Probability: 0.6914624612740131}})
	assert.Equal(t, []string{"185", "182.5", "5", "0.5", "0.6914624612740131"}, comp.Rows[0])
}

func TestEVMTables(t *testing.T) {
	snap := SnapshotTable(evm.Snapshot{BAC: 100, SPI: 0.5})
	assert.Len(t, snap.Rows, 11)
	assert.Equal(t, []string{"bac", "100"}, snap.Rows[0])
	assert.Equal(t, []string{"spi", "0.5"}, snap.Rows[6])

	cv := CostVarianceTable([]evm.CostVariance{{ID: "A", Budget: 1000, Actual: 1200, Variance: -200, VariancePct: -20, Status: evm.OverBudget}})
	assert.Equal(t, []string{"A", "1000", "1200", "-200", "-20", "Over Budget"}, cv.Rows[0])
}

func TestWriteTablesRisk(t *testing.T) {
	r := risk.Report{
		Critical:    []risk.CriticalActivity{{ID: "Q1", Duration: 22, ES: 63, EF: 85, Impact: risk.High}},
		Bottlenecks: []risk.Bottleneck{{Day: 63, Demand: 6, Activities: []string{"N", "O1", "P1"}}},
		Constraints: []risk.Constraint{{Type: risk.TightSequence, ID: "P1", Float: 2, Level: risk.Medium}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, RiskTables(r)...))
	assert.Equal(t, "# critical_activities\n"+
		"id,duration,es,ef,impact\n"+
		"Q1,22,63,85,High\n"+
		"\n# bottlenecks\n"+
		"day,demand,activities\n"+
		"63,6,N;O1;P1\n"+
		"\n# constraints\n"+
		"type,id,duration,float,level\n"+
		"Tight Sequence,P1,0,2,Medium\n", buf.String())
}
