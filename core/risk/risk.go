// Package risk flags schedule risks from a computed schedule and its
// resource projection: long critical activities, crowded high-demand days
// and activities with little float.
package risk

import (
	"math"
	"sort"

	"github.com/kilianp07/pmsched/core/resource"
	"github.com/kilianp07/pmsched/core/schedule"
)

// Level grades a finding.
type Level string

const (
	Low    Level = "Low"
	Medium Level = "Medium"
	High   Level = "High"
)

// Thresholds used by Analyze.
const (
	HighImpactDays      = 10   // critical activity longer than this is High impact
	MediumImpactDays    = 5    // and longer than this Medium
	LongDurationDays    = 15   // any activity longer than this is a Long Duration constraint
	TightFloatDays      = 3    // float in (0, TightFloatDays] is a Tight Sequence
	BottleneckQuantile  = 0.75 // demand quantile a day must reach to be a bottleneck
	BottleneckMinActive = 3    // activities that must be active on a bottleneck day
)

// Constraint types.
const (
	LongDuration  = "Long Duration"
	TightSequence = "Tight Sequence"
)

// CriticalActivity is a zero-float activity graded by duration.
type CriticalActivity struct {
	ID       string `json:"id"`
	Duration int    `json:"duration"`
	Impact   Level  `json:"impact"`
	ES       int    `json:"es"`
	EF       int    `json:"ef"`
}

// Bottleneck is a high-demand day with many concurrent activities.
type Bottleneck struct {
	Day        int      `json:"day"`
	Demand     int      `json:"demand"`
	Activities []string `json:"activities"`
}

// Constraint is a schedule shape that deserves attention.
type Constraint struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Duration int    `json:"duration,omitempty"`
	Float    int    `json:"float,omitempty"`
	Level    Level  `json:"level"`
}

// Report bundles all findings.
type Report struct {
	Resource    string             `json:"resource,omitempty"`
	Critical    []CriticalActivity `json:"critical"`
	Bottlenecks []Bottleneck       `json:"bottlenecks"`
	Constraints []Constraint       `json:"constraints"`
}

// HighImpact returns the High impact critical activities.
func (r Report) HighImpact() []CriticalActivity {
	var out []CriticalActivity
	for _, c := range r.Critical {
		if c.Impact == High {
			out = append(out, c)
		}
	}
	return out
}

// Impact grades a critical activity by its duration.
func Impact(duration int) Level {
	switch {
	case duration > HighImpactDays:
		return High
	case duration > MediumImpactDays:
		return Medium
	default:
		return Low
	}
}

// Analyze builds the report. Bottlenecks are computed on the timeline of
// the given resource kind; an unknown kind or a nil projection yields none.
func Analyze(s *schedule.Schedule, p *resource.Projection, kind string) Report {
	r := Report{Resource: kind}
	for _, n := range s.Nodes() {
		if n.Critical {
			r.Critical = append(r.Critical, CriticalActivity{ID: n.ID, Duration: n.Duration, Impact: Impact(n.Duration), ES: n.ES, EF: n.EF})
		}
		if n.Duration > LongDurationDays {
			r.Constraints = append(r.Constraints, Constraint{Type: LongDuration, ID: n.ID, Duration: n.Duration, Level: High})
		}
		if n.TotalFloat > 0 && n.TotalFloat <= TightFloatDays {
			r.Constraints = append(r.Constraints, Constraint{Type: TightSequence, ID: n.ID, Float: n.TotalFloat, Level: Medium})
		}
	}

	if p == nil {
		return r
	}
	tl, ok := p.Timeline(kind)
	if !ok {
		return r
	}
	threshold := Threshold(tl.Daily, BottleneckQuantile)
	for day, demand := range tl.Daily {
		if float64(demand) < threshold {
			continue
		}
		active := s.ActiveOn(day)
		if len(active) < BottleneckMinActive {
			continue
		}
		r.Bottlenecks = append(r.Bottlenecks, Bottleneck{Day: day, Demand: demand, Activities: active})
	}
	return r
}

// Threshold returns the q-quantile of a daily demand series, interpolating
// linearly between the two closest ranks at h = (n-1)*q. This is the
// default method of numpy.percentile.
func Threshold(daily []int, q float64) float64 {
	if len(daily) == 0 {
		return 0
	}
	x := make([]float64, len(daily))
	for i, v := range daily {
		x[i] = float64(v)
	}
	sort.Float64s(x)
	h := float64(len(x)-1) * math.Min(math.Max(q, 0), 1)
	lo := int(math.Floor(h))
	if lo >= len(x)-1 {
		return x[len(x)-1]
	}
	return x[lo] + (h-float64(lo))*(x[lo+1]-x[lo])
}
