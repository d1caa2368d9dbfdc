package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
)

func TestJSONLSinkAppendAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive", "runs.jsonl")
	sink, err := NewJSONLSink(path, 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordSchedule(coremetrics.ScheduleEvent{
		RunID: "r1", Project: "office", Duration: 11, Time: t0,
		Activities: []coremetrics.ActivityTiming{{ID: "A", Duration: 1, EF: 1, LF: 1, Critical: true}},
	}))
	require.NoError(t, sink.RecordPerformance(coremetrics.PerformanceEvent{RunID: "r1", Project: "office", SPI: 0.9, Time: t0}))
	require.NoError(t, sink.RecordCompletion(coremetrics.CompletionEvent{
		RunID: "r2", Project: "office", Expected: 12, StdDev: 1, Time: t0.Add(time.Hour),
		Points: []coremetrics.CompletionPoint{{Target: 12, Probability: 0.5}},
	}))
	require.NoError(t, sink.RecordResources(coremetrics.ResourceEvent{RunID: "r3", Project: "other", Time: t0}))

	all, err := sink.Query(ArchiveQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	office, err := sink.Query(ArchiveQuery{Project: "office"})
	require.NoError(t, err)
	require.Len(t, office, 3)
	assert.Equal(t, "r2", office[2].RunID)

	sched, err := sink.Query(ArchiveQuery{Kind: KindSchedule})
	require.NoError(t, err)
	require.Len(t, sched, 1)
	var body struct {
		Duration   int                          `json:"duration"`
		Activities []coremetrics.ActivityTiming `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(sched[0].Data, &body))
	assert.Equal(t, 11, body.Duration)
	assert.True(t, body.Activities[0].Critical)
	assert.True(t, t0.Equal(sched[0].Time))

	late, err := sink.Query(ArchiveQuery{Start: t0.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, KindCompletion, late[0].Kind)
}

func TestJSONLSinkReadsRotatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	old := `{"kind":"schedule","run_id":"old","project":"office","time":"2026-01-01T00:00:00Z","data":{}}` + "\n" + "not json\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "runs-2026-01-02T00-00-00.000.jsonl"), []byte(old), 0o600))

	sink, err := NewJSONLSink(path, 0, 0, 0)
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()
	require.NoError(t, sink.RecordSchedule(coremetrics.ScheduleEvent{RunID: "new", Project: "office", Time: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}))

	recs, err := sink.Query(ArchiveQuery{Project: "office"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "old", recs[0].RunID)
	assert.Equal(t, "new", recs[1].RunID)
}
