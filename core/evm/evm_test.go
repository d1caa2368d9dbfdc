package evm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pmsched/core/model"
)

func TestComputeSingleFinishedActivity(t *testing.T) {
	s := Compute([]Record{{ID: "A", Budget: 10000, Actual: 12000, PercentComplete: 100}})
	assert.Equal(t, 10000.0, s.BAC)
	assert.Equal(t, 10000.0, s.PV)
	assert.Equal(t, 10000.0, s.EV)
	assert.Equal(t, 12000.0, s.AC)
	assert.Equal(t, 0.0, s.SV)
	assert.Equal(t, -2000.0, s.CV)
	assert.Equal(t, 1.0, s.SPI)
	assert.InDelta(t, 0.8333333, s.CPI, 1e-6)
	assert.InDelta(t, 12000, s.EAC, 1e-6)
	assert.InDelta(t, -2000, s.VAC, 1e-6)
	// BAC - EV = 0 and EAC - AC = 0
	assert.Equal(t, 0.0, s.TCPI)
}

func TestComputeProratesActualCost(t *testing.T) {
	s := Compute([]Record{
		{ID: "A", Budget: 1000, Actual: 800, PercentComplete: 50},
		{ID: "B", Budget: 3000, Actual: 5000, PercentComplete: 0},
	})
	assert.Equal(t, 4000.0, s.BAC)
	assert.Equal(t, 4000.0, s.PV)
	assert.Equal(t, 500.0, s.EV)
	assert.Equal(t, 400.0, s.AC)
	assert.Equal(t, -3500.0, s.SV)
	assert.Equal(t, 100.0, s.CV)
	assert.InDelta(t, 0.125, s.SPI, 1e-12)
	assert.InDelta(t, 1.25, s.CPI, 1e-12)
	assert.InDelta(t, 3200, s.EAC, 1e-9)
	assert.InDelta(t, 800, s.VAC, 1e-9)
	assert.InDelta(t, 3500.0/2800.0, s.TCPI, 1e-12)
}

func TestComputeZeroDenominators(t *testing.T) {
	s := Compute(nil)
	assert.Equal(t, Snapshot{}, s)

	// Nothing started: AC = 0 so CPI, EAC fall back to 0.
	s = Compute([]Record{{ID: "A", Budget: 500, Actual: 100}})
	assert.Equal(t, 0.0, s.CPI)
	assert.Equal(t, 0.0, s.EAC)
	assert.Equal(t, 500.0, s.VAC)
	assert.Equal(t, 0.0, s.SPI)
	assert.Equal(t, 0.0, s.TCPI)
}

func TestComputeSampleProject(t *testing.T) {
	s := Compute(sampleRecords())
	assert.InDelta(t, 193000, s.BAC, 1e-6)
	assert.Equal(t, s.BAC, s.PV)
	assert.Greater(t, s.EV, 0.0)
	assert.InDelta(t, s.EV-s.PV, s.SV, 1e-9)
	assert.InDelta(t, s.EV/s.AC, s.CPI, 1e-12)
	assert.InDelta(t, s.BAC/s.CPI, s.EAC, 1e-6)
	assert.InDelta(t, (s.BAC-s.EV)/(s.EAC-s.AC), s.TCPI, 1e-12)
	assert.Equal(t, BehindSchedule, Assess(s).Schedule)
}

func TestCostVariances(t *testing.T) {
	vs := CostVariances([]Record{
		{ID: "A", Budget: 1000, Actual: 1200},
		{ID: "B", Budget: 8000, Actual: 7800},
		{ID: "C", Budget: 2000, Actual: 1800},
		{ID: "D", Budget: 0, Actual: 50},
		{ID: "E", Budget: 1000, Actual: 1050},
		{ID: "F", Budget: 1000, Actual: 949},
	})
	require.Len(t, vs, 6)
	assert.Equal(t, OverBudget, vs[0].Status)
	assert.InDelta(t, -20, vs[0].VariancePct, 1e-12)
	assert.Equal(t, -200.0, vs[0].Variance)
	assert.Equal(t, OnBudget, vs[1].Status)
	assert.Equal(t, UnderBudget, vs[2].Status)
	assert.Equal(t, 0.0, vs[3].VariancePct)
	assert.Equal(t, OnBudget, vs[3].Status)
	// exactly -5% stays on budget
	assert.Equal(t, OnBudget, vs[4].Status)
	assert.Equal(t, UnderBudget, vs[5].Status)

	sig := Significant(vs)
	ids := make([]string, len(sig))
	for i, v := range sig {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"C", "F", "A"}, ids)
}

func TestAssess(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want Assessment
	}{
		{"on track", Snapshot{SPI: 1, CPI: 1}, Assessment{Schedule: OnSchedule, Cost: OnBudget}},
		{"behind and over", Snapshot{SPI: 0.9, CPI: 0.8, TCPI: 1.2}, Assessment{Schedule: BehindSchedule, Cost: OverBudget, NeedsImprovement: true}},
		{"ahead and under", Snapshot{SPI: 1.1, CPI: 1.2, TCPI: 0.9}, Assessment{Schedule: AheadOfSchedule, Cost: UnderBudget}},
		{"band edges", Snapshot{SPI: 0.95, CPI: 1.05, TCPI: 1.1}, Assessment{Schedule: OnSchedule, Cost: OnBudget}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assess(tt.snap))
		})
	}
}

func TestRecordsFromRegistry(t *testing.T) {
	reg, err := model.NewRegistry([]model.Activity{
		{ID: "A", Duration: 1, BudgetCost: 1000, ActualCost: 1200, PercentComplete: 100},
		{ID: "B", Duration: 2},
	})
	require.NoError(t, err)
	recs := RecordsFromRegistry(reg)
	assert.Equal(t, []Record{
		{ID: "A", Budget: 1000, Actual: 1200, PercentComplete: 100},
		{ID: "B"},
	}, recs)
}

func sampleRecords() []Record {
	ids := []string{"A", "B", "C1", "C2", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
		"O1", "O2", "P1", "P2", "P3", "Q1", "Q2", "R1", "R2", "R3", "S1", "S2", "S3",
		"T1", "T2", "U", "V", "W1", "W2", "X", "Y"}
	budget := []float64{1000, 8000, 2000, 7000, 3000, 7000, 3000, 6000, 4000, 3000, 5000, 2000, 3000,
		9000, 8000, 2000, 2000, 2000, 2000, 2000, 22000, 22000, 3000, 3000, 3000,
		2000, 2000, 2000, 3000, 3000, 12000, 12000, 8000, 8000, 6000, 1000}
	actual := []float64{1200, 7800, 2200, 7500, 2800, 7200, 3100, 6200, 4200, 2900, 5100, 1900, 3200,
		9500, 8200, 1900, 2100, 2100, 1900, 2200, 23000, 21500, 3200, 2900, 3100,
		1900, 2100, 2000, 3200, 2900, 12500, 12200, 8300, 7800, 6200, 900}
	pct := []float64{100, 100, 100, 100, 100, 90, 85, 80, 75, 70, 65, 60, 55, 50, 45,
		40, 35, 30, 25, 20, 15, 10, 5, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	out := make([]Record, len(ids))
	for i, id := range ids {
		out[i] = Record{ID: id, Budget: budget[i], Actual: actual[i], PercentComplete: pct[i]}
	}
	return out
}
