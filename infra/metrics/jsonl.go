package metrics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
)

// Record kinds written by JSONLSink.
const (
	KindSchedule    = "schedule"
	KindResources   = "resources"
	KindCompletion  = "completion"
	KindPerformance = "performance"
)

// ArchiveRecord is one line of the JSONL archive.
type ArchiveRecord struct {
	Kind    string          `json:"kind"`
	RunID   string          `json:"run_id"`
	Project string          `json:"project"`
	Time    time.Time       `json:"time"`
	Data    json.RawMessage `json:"data"`
}

// ArchiveQuery filters archive records. Zero fields match everything.
type ArchiveQuery struct {
	Project string
	Kind    string
	Start   time.Time
	End     time.Time
}

// JSONLSink appends every event to a size-rotated JSON lines file.
type JSONLSink struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	path string
}

// NewJSONLSink creates the archive at path. Rotation limits are in
// megabytes and days; zero keeps the lumberjack defaults.
func NewJSONLSink(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &JSONLSink{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
		path: path,
	}, nil
}

func (s *JSONLSink) append(kind, runID, project string, ts time.Time, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line, err := json.Marshal(ArchiveRecord{Kind: kind, RunID: runID, Project: project, Time: ts, Data: data})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(append(line, '\n'))
	return err
}

// RecordSchedule archives the activity timings of a run.
func (s *JSONLSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	return s.append(KindSchedule, ev.RunID, ev.Project, ev.Time, struct {
		Duration   int                          `json:"duration"`
		Activities []coremetrics.ActivityTiming `json:"activities"`
	}{ev.Duration, ev.Activities})
}

// RecordResources archives the daily resource loads.
func (s *JSONLSink) RecordResources(ev coremetrics.ResourceEvent) error {
	return s.append(KindResources, ev.RunID, ev.Project, ev.Time, ev.Loads)
}

// RecordCompletion archives the completion curve.
func (s *JSONLSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	return s.append(KindCompletion, ev.RunID, ev.Project, ev.Time, struct {
		Expected float64                       `json:"expected"`
		StdDev   float64                       `json:"std_dev"`
		Points   []coremetrics.CompletionPoint `json:"points"`
	}{ev.Expected, ev.StdDev, ev.Points})
}

// RecordPerformance archives the earned value snapshot.
func (s *JSONLSink) RecordPerformance(ev coremetrics.PerformanceEvent) error {
	return s.append(KindPerformance, ev.RunID, ev.Project, ev.Time, ev)
}

// Query reads the current file and every rotated backup, returning matching
// records ordered by time.
func (s *JSONLSink) Query(q ArchiveQuery) ([]ArchiveRecord, error) {
	ext := filepath.Ext(s.path)
	base := s.path[:len(s.path)-len(ext)]
	files, err := filepath.Glob(base + "*" + ext)
	if err != nil {
		return nil, err
	}
	var res []ArchiveRecord
	for _, f := range files {
		recs, err := readArchive(f, q)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Time.Before(res[j].Time) })
	return res, nil
}

func readArchive(path string, q ArchiveQuery) ([]ArchiveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []ArchiveRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var r ArchiveRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		if q.Project != "" && r.Project != q.Project {
			continue
		}
		if q.Kind != "" && r.Kind != q.Kind {
			continue
		}
		if !q.Start.IsZero() && r.Time.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && r.Time.After(q.End) {
			continue
		}
		res = append(res, r)
	}
	return res, sc.Err()
}

// Close closes the current archive file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
