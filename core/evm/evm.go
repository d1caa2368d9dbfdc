// Package evm computes earned value figures for a reporting instant.
//
// Planned value is the full budget of every activity, as if all work were
// due by the reporting date, so SV and SPI only carry meaning late in a
// project. Actual cost is pro-rated by the same percent complete used for
// earned value.
package evm

import (
	"sort"

	"github.com/kilianp07/pmsched/core/model"
)

// Record is the cost and progress view of one activity.
type Record struct {
	ID              string  `json:"id"`
	Budget          float64 `json:"budget"`
	Actual          float64 `json:"actual"`
	PercentComplete float64 `json:"percent_complete"`
}

// RecordsFromRegistry extracts cost records in registry order.
func RecordsFromRegistry(reg *model.Registry) []Record {
	acts := reg.Activities()
	out := make([]Record, len(acts))
	for i, a := range acts {
		out[i] = Record{ID: a.ID, Budget: a.BudgetCost, Actual: a.ActualCost, PercentComplete: a.PercentComplete}
	}
	return out
}

// Snapshot holds the aggregate indices.
type Snapshot struct {
	BAC  float64 `json:"bac"`
	PV   float64 `json:"pv"`
	EV   float64 `json:"ev"`
	AC   float64 `json:"ac"`
	SV   float64 `json:"sv"`
	CV   float64 `json:"cv"`
	SPI  float64 `json:"spi"`
	CPI  float64 `json:"cpi"`
	EAC  float64 `json:"eac"`
	VAC  float64 `json:"vac"`
	TCPI float64 `json:"tcpi"`
}

// Compute derives a snapshot. Every ratio whose denominator is zero is 0.
func Compute(records []Record) Snapshot {
	var s Snapshot
	for _, r := range records {
		done := r.PercentComplete / 100
		s.BAC += r.Budget
		s.PV += r.Budget
		s.EV += done * r.Budget
		s.AC += r.Actual * done
	}
	s.SV = s.EV - s.PV
	s.CV = s.EV - s.AC
	s.SPI = ratio(s.EV, s.PV)
	s.CPI = ratio(s.EV, s.AC)
	s.EAC = ratio(s.BAC, s.CPI)
	s.VAC = s.BAC - s.EAC
	s.TCPI = ratio(s.BAC-s.EV, s.EAC-s.AC)
	return s
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Cost status labels.
const (
	OverBudget  = "Over Budget"
	UnderBudget = "Under Budget"
	OnBudget    = "On Budget"
)

// CostVariance is the per-activity budget comparison.
type CostVariance struct {
	ID          string  `json:"id"`
	Budget      float64 `json:"budget"`
	Actual      float64 `json:"actual"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variance_pct"`
	Status      string  `json:"status"`
}

// CostVariances classifies each record: variance_pct =
// (budget - actual) / budget * 100, Over Budget below -5, Under Budget above
// 5, On Budget otherwise. A zero budget gives 0% and On Budget.
func CostVariances(records []Record) []CostVariance {
	out := make([]CostVariance, len(records))
	for i, r := range records {
		v := r.Budget - r.Actual
		pct := 0.0
		if r.Budget != 0 {
			pct = v / r.Budget * 100
		}
		status := OnBudget
		switch {
		case pct < -5:
			status = OverBudget
		case pct > 5:
			status = UnderBudget
		}
		out[i] = CostVariance{ID: r.ID, Budget: r.Budget, Actual: r.Actual, Variance: v, VariancePct: pct, Status: status}
	}
	return out
}

// Significant keeps variances beyond ±5% sorted by variance_pct descending.
func Significant(vs []CostVariance) []CostVariance {
	var out []CostVariance
	for _, v := range vs {
		if v.VariancePct > 5 || v.VariancePct < -5 {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VariancePct > out[j].VariancePct })
	return out
}
