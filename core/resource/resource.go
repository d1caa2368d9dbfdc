// Package resource projects per-activity resource quantities onto the
// schedule as a per-day demand timeline and lists activities whose float
// would allow their demand to move. It reports leveling opportunities only;
// nothing is rescheduled.
package resource

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/pmsched/core/model"
	"github.com/kilianp07/pmsched/core/schedule"
)

// Demand maps activity identifier to resource kind to quantity.
type Demand map[string]map[string]int

// DemandFromRegistry collects the resource quantities carried by the
// activities of reg.
func DemandFromRegistry(reg *model.Registry) Demand {
	d := make(Demand)
	for _, a := range reg.Activities() {
		if len(a.Resources) > 0 {
			d[a.ID] = a.Resources
		}
	}
	return d
}

// Kinds returns the resource kinds present in d, sorted by name.
func (d Demand) Kinds() []string {
	set := make(map[string]struct{})
	for _, res := range d {
		for k := range res {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Timeline is the per-day demand of one resource kind. Daily has one entry
// per day 0..project duration inclusive.
type Timeline struct {
	Kind     string  `json:"kind"`
	Daily    []int   `json:"daily"`
	Peak     int     `json:"peak"`
	Average  float64 `json:"average"`
	PeakDays []int   `json:"peak_days"`
}

// LevelingCandidate is an activity with positive float and nonzero demand.
type LevelingCandidate struct {
	ID        string         `json:"id"`
	Float     int            `json:"float"`
	Resources map[string]int `json:"resources"`
}

// Projection is the result of Project.
type Projection struct {
	Horizon    int                 `json:"horizon"`
	Timelines  []Timeline          `json:"timelines"`
	Candidates []LevelingCandidate `json:"candidates"`
}

// Timeline returns the timeline for kind.
func (p *Projection) Timeline(kind string) (Timeline, bool) {
	for _, tl := range p.Timelines {
		if tl.Kind == kind {
			return tl, true
		}
	}
	return Timeline{}, false
}

// Project spreads every activity's demand over the half-open interval
// [ES, EF): an activity occupies exactly Duration days starting at ES, so EF
// itself carries none of its demand. The average divides by project
// duration + 1 and counts zero-demand days.
func Project(s *schedule.Schedule, demand Demand) *Projection {
	horizon := s.ProjectDuration()
	kinds := demand.Kinds()
	nodes := s.Nodes()

	p := &Projection{Horizon: horizon, Timelines: make([]Timeline, len(kinds))}
	for k, kind := range kinds {
		daily := make([]int, horizon+1)
		for _, n := range nodes {
			qty := demand[n.ID][kind]
			if qty == 0 {
				continue
			}
			for day := n.ES; day < n.EF; day++ {
				daily[day] += qty
			}
		}
		p.Timelines[k] = summarize(kind, daily)
	}

	for _, n := range nodes {
		if n.TotalFloat <= 0 {
			continue
		}
		res := demand[n.ID]
		nonzero := false
		for _, q := range res {
			if q > 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			continue
		}
		c := LevelingCandidate{ID: n.ID, Float: n.TotalFloat, Resources: make(map[string]int, len(res))}
		for k, q := range res {
			c.Resources[k] = q
		}
		p.Candidates = append(p.Candidates, c)
	}
	return p
}

func summarize(kind string, daily []int) Timeline {
	values := make([]float64, len(daily))
	for i, v := range daily {
		values[i] = float64(v)
	}
	peak := int(floats.Max(values))
	tl := Timeline{
		Kind:    kind,
		Daily:   daily,
		Peak:    peak,
		Average: stat.Mean(values, nil),
	}
	for day, v := range daily {
		if v == peak {
			tl.PeakDays = append(tl.PeakDays, day)
		}
	}
	return tl
}
