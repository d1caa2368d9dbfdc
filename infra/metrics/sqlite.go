package metrics

import (
	"database/sql"
	"time"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	_ "modernc.org/sqlite"
)

// SQLiteSink keeps a history of analysis runs in a SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// Run is one row of the run history.
type Run struct {
	RunID    string
	Project  string
	Duration int
	Critical int
	SPI      sql.NullFloat64
	CPI      sql.NullFloat64
	Time     time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    project TEXT,
    duration INTEGER,
    critical INTEGER,
    recorded_at INTEGER
);
CREATE TABLE IF NOT EXISTS run_activities (
    run_id TEXT,
    activity_id TEXT,
    es INTEGER,
    ef INTEGER,
    ls INTEGER,
    lf INTEGER,
    total_float INTEGER,
    critical INTEGER,
    PRIMARY KEY(run_id, activity_id)
);
CREATE TABLE IF NOT EXISTS run_performance (
    run_id TEXT PRIMARY KEY,
    bac REAL, pv REAL, ev REAL, ac REAL,
    spi REAL, cpi REAL, eac REAL, vac REAL, tcpi REAL
);`

// NewSQLiteSink opens or creates the database and ensures schema.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// RecordSchedule stores the run and its activity table in one transaction.
func (s *SQLiteSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	critical := 0
	for _, a := range ev.Activities {
		if a.Critical {
			critical++
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO run_activities
            (run_id, activity_id, es, ef, ls, lf, total_float, critical)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.RunID, a.ID, a.ES, a.EF, a.LS, a.LF, a.TotalFloat, a.Critical); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT INTO runs (run_id, project, duration, critical, recorded_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(run_id) DO UPDATE SET
            duration = excluded.duration,
            critical = excluded.critical`,
		ev.RunID, ev.Project, ev.Duration, critical, ev.Time.UTC().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordPerformance stores the earned value snapshot of a run.
func (s *SQLiteSink) RecordPerformance(ev coremetrics.PerformanceEvent) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO run_performance
        (run_id, bac, pv, ev, ac, spi, cpi, eac, vac, tcpi)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.BAC, ev.PV, ev.EV, ev.AC, ev.SPI, ev.CPI, ev.EAC, ev.VAC, ev.TCPI)
	return err
}

// Runs returns the recorded runs of project, oldest first.
func (s *SQLiteSink) Runs(project string) ([]Run, error) {
	rows, err := s.db.Query(`SELECT r.run_id, r.project, r.duration, r.critical, p.spi, p.cpi, r.recorded_at
        FROM runs r LEFT JOIN run_performance p ON p.run_id = r.run_id
        WHERE r.project = ? ORDER BY r.recorded_at, r.run_id`, project)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Run
	for rows.Next() {
		var r Run
		var ts int64
		if err := rows.Scan(&r.RunID, &r.Project, &r.Duration, &r.Critical, &r.SPI, &r.CPI, &ts); err != nil {
			return nil, err
		}
		r.Time = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Float returns the total float recorded for an activity in a run.
func (s *SQLiteSink) Float(runID, activityID string) (int, error) {
	var f int
	err := s.db.QueryRow(`SELECT total_float FROM run_activities WHERE run_id = ? AND activity_id = ?`,
		runID, activityID).Scan(&f)
	return f, err
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
