package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/pmsched/core/evm"
	"github.com/kilianp07/pmsched/core/network"
	"github.com/kilianp07/pmsched/core/pert"
	"github.com/kilianp07/pmsched/core/resource"
	"github.com/kilianp07/pmsched/core/risk"
	"github.com/kilianp07/pmsched/core/schedule"
)

// Table is a named CSV table.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes a single table with its header.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTables writes several tables, each introduced by a "# name" line and
// separated by a blank line.
func WriteTables(w io.Writer, tables ...Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "# %s\n", t.Name); err != nil {
			return err
		}
		if err := WriteCSV(w, t); err != nil {
			return err
		}
	}
	return nil
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ScheduleTable lists the computed dates of every activity.
func ScheduleTable(nodes []schedule.Node) Table {
	t := Table{Name: "schedule", Header: []string{"id", "duration", "predecessors", "es", "ef", "ls", "lf", "total_float", "critical"}}
	for _, n := range nodes {
		t.Rows = append(t.Rows, []string{n.ID, itoa(n.Duration), network.FormatPredecessors(n.Predecessors, network.NoPredecessors),
			itoa(n.ES), itoa(n.EF), itoa(n.LS), itoa(n.LF), itoa(n.TotalFloat), strconv.FormatBool(n.Critical)})
	}
	return t
}

// TimelineTable has one row per day and one column per resource kind.
func TimelineTable(p *resource.Projection) Table {
	t := Table{Name: "resources", Header: []string{"day"}}
	for _, tl := range p.Timelines {
		t.Header = append(t.Header, tl.Kind)
	}
	for day := 0; day <= p.Horizon; day++ {
		row := []string{itoa(day)}
		for _, tl := range p.Timelines {
			row = append(row, itoa(tl.Daily[day]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// CandidatesTable lists leveling candidates with their demand as kind=units pairs.
func CandidatesTable(cands []resource.LevelingCandidate) Table {
	t := Table{Name: "leveling_candidates", Header: []string{"id", "float", "resources"}}
	for _, c := range cands {
		kinds := make([]string, 0, len(c.Resources))
		for k := range c.Resources {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		pairs := make([]string, len(kinds))
		for i, k := range kinds {
			pairs[i] = k + "=" + itoa(c.Resources[k])
		}
		t.Rows = append(t.Rows, []string{c.ID, itoa(c.Float), strings.Join(pairs, ";")})
	}
	return t
}

// EstimatesTable lists the per-activity PERT values.
func EstimatesTable(es []pert.ActivityEstimate) Table {
	t := Table{Name: "pert", Header: []string{"id", "optimistic", "most_likely", "pessimistic", "expected", "variance", "std_dev", "cv", "risk"}}
	for _, e := range es {
		t.Rows = append(t.Rows, []string{e.ID, ftoa(e.Optimistic), ftoa(e.MostLikely), ftoa(e.Pessimistic),
			ftoa(e.Expected), ftoa(e.Variance), ftoa(e.StdDev), ftoa(e.CV), string(e.Risk)})
	}
	return t
}

// CompletionTable lists completion probabilities per target.
func CompletionTable(cs []pert.Completion) Table {
	t := Table{Name: "completion", Header: []string{"target", "expected", "std_dev", "z", "probability"}}
	for _, c := range cs {
		t.Rows = append(t.Rows, []string{ftoa(c.Target), ftoa(c.Expected), ftoa(c.StdDev), ftoa(c.Z), ftoa(c.Probability)})
	}
	return t
}

// SnapshotTable renders the earned value snapshot as metric/value pairs.
func SnapshotTable(s evm.Snapshot) Table {
	t := Table{Name: "performance", Header: []string{"metric", "value"}}
	for _, kv := range []struct {
		k string
		v float64
	}{
		{"bac", s.BAC}, {"pv", s.PV}, {"ev", s.EV}, {"ac", s.AC}, {"sv", s.SV}, {"cv", s.CV},
		{"spi", s.SPI}, {"cpi", s.CPI}, {"eac", s.EAC}, {"vac", s.VAC}, {"tcpi", s.TCPI},
	} {
		t.Rows = append(t.Rows, []string{kv.k, ftoa(kv.v)})
	}
	return t
}

// CostVarianceTable lists the per-activity cost variance.
func CostVarianceTable(vs []evm.CostVariance) Table {
	t := Table{Name: "cost_variance", Header: []string{"id", "budget", "actual", "variance", "variance_pct", "status"}}
	for _, v := range vs {
		t.Rows = append(t.Rows, []string{v.ID, ftoa(v.Budget), ftoa(v.Actual), ftoa(v.Variance), ftoa(v.VariancePct), v.Status})
	}
	return t
}

// RiskTables renders the risk report as three tables.
func RiskTables(r risk.Report) []Table {
	crit := Table{Name: "critical_activities", Header: []string{"id", "duration", "es", "ef", "impact"}}
	for _, c := range r.Critical {
		crit.Rows = append(crit.Rows, []string{c.ID, itoa(c.Duration), itoa(c.ES), itoa(c.EF), string(c.Impact)})
	}
	bn := Table{Name: "bottlenecks", Header: []string{"day", "demand", "activities"}}
	for _, b := range r.Bottlenecks {
		bn.Rows = append(bn.Rows, []string{itoa(b.Day), itoa(b.Demand), strings.Join(b.Activities, ";")})
	}
	cons := Table{Name: "constraints", Header: []string{"type", "id", "duration", "float", "level"}}
	for _, c := range r.Constraints {
		cons.Rows = append(cons.Rows, []string{c.Type, c.ID, itoa(c.Duration), itoa(c.Float), string(c.Level)})
	}
	return []Table{crit, bn, cons}
}
