package pert

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pmsched/core/model"
)

func TestEstimate(t *testing.T) {
	e := Estimate("B", model.Estimate{Optimistic: 1, MostLikely: 8, Pessimistic: 12})
	assert.InDelta(t, 7.5, e.Expected, 1e-12)
	assert.InDelta(t, 121.0/36.0, e.Variance, 1e-12)
	assert.InDelta(t, 3.36, e.Variance, 0.01)
	assert.InDelta(t, 11.0/6.0, e.StdDev, 1e-12)
	assert.InDelta(t, (11.0/6.0)/7.5, e.CV, 1e-12)
	assert.Equal(t, RiskHigh, e.Risk)
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		cv   float64
		want RiskLevel
	}{
		{0, RiskLow},
		{0.1, RiskLow},
		{math.Nextafter(0.1, 1), RiskMedium},
		{0.2, RiskMedium},
		{math.Nextafter(0.2, 1), RiskHigh},
		{0.9, RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.cv), "cv=%v", tt.cv)
	}
}

func TestAnalyzeSkipsActivitiesWithoutEstimate(t *testing.T) {
	reg, err := model.NewRegistry([]model.Activity{
		{ID: "A", Duration: 1, Estimate: &model.Estimate{Optimistic: 1, MostLikely: 1, Pessimistic: 2}},
		{ID: "M", Duration: 0},
		{ID: "B", Duration: 8, Estimate: &model.Estimate{Optimistic: 6, MostLikely: 8, Pessimistic: 12}},
	})
	require.NoError(t, err)
	est := Analyze(reg)
	require.Len(t, est, 2)
	assert.Equal(t, "A", est[0].ID)
	assert.Equal(t, "B", est[1].ID)
	// A: sd 1/6, expected 7/6, cv = 1/7 -> Medium
	assert.Equal(t, RiskMedium, est[0].Risk)
	// B: sd 1, expected 8.333, cv 0.12 -> Medium
	assert.Equal(t, RiskMedium, est[1].Risk)
	assert.Empty(t, HighRisk(est))
}

func TestAggregateAndCompletion(t *testing.T) {
	reg := sampleRegistry(t)
	path, err := Aggregate(reg, sampleCritical)
	require.NoError(t, err)
	assert.Empty(t, path.Missing)
	assert.InDelta(t, 182.1666667, path.Expected, 1e-6)
	assert.InDelta(t, 18.1388889, path.Variance, 1e-6)
	assert.InDelta(t, 4.2589774, path.StdDev, 1e-6)

	want := map[float64]float64{
		165: 2.78053e-05,
		170: 0.00214028,
		175: 0.0462147,
		180: 0.305471,
		185: 0.747058,
	}
	for target, p := range want {
		c, err := path.Completion(target)
		require.NoError(t, err)
		assert.InDelta(t, p, c.Probability, 1e-5, "target %v", target)
		assert.InDelta(t, (target-path.Expected)/path.StdDev, c.Z, 1e-12)
		assert.False(t, c.Deterministic)
	}

	one := path.Interval(1)
	assert.InDelta(t, 177.9077, one.Low, 1e-3)
	assert.InDelta(t, 186.4256, one.High, 1e-3)
	two := path.Interval(2)
	assert.InDelta(t, path.Expected-2*path.StdDev, two.Low, 1e-12)
}

func TestAggregateDeduplicatesAndReportsMissing(t *testing.T) {
	reg, err := model.NewRegistry([]model.Activity{
		{ID: "A", Duration: 2, Estimate: &model.Estimate{Optimistic: 1, MostLikely: 2, Pessimistic: 3}},
		{ID: "M", Duration: 0},
	})
	require.NoError(t, err)
	path, err := Aggregate(reg, []string{"A", "M", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "M"}, path.Activities)
	assert.Equal(t, []string{"M"}, path.Missing)
	assert.InDelta(t, 2.0, path.Expected, 1e-12)

	_, err = Aggregate(reg, []string{"Z"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCompletionDegenerateVariance(t *testing.T) {
	reg, err := model.NewRegistry([]model.Activity{
		{ID: "A", Duration: 5, Estimate: &model.Estimate{Optimistic: 5, MostLikely: 5, Pessimistic: 5}},
	})
	require.NoError(t, err)
	path, err := Aggregate(reg, []string{"A"})
	require.NoError(t, err)

	_, err = path.Completion(6)
	var dv *DegenerateVarianceError
	require.ErrorAs(t, err, &dv)
	assert.ErrorIs(t, err, ErrDegenerateVariance)
	assert.Equal(t, 5.0, dv.Expected)

	above := path.CompletionStep(6)
	assert.True(t, above.Deterministic)
	assert.Equal(t, 1.0, above.Probability)
	assert.True(t, math.IsInf(above.Z, 1))

	equal := path.CompletionStep(5)
	assert.Equal(t, 1.0, equal.Probability)

	below := path.CompletionStep(4)
	assert.Equal(t, 0.0, below.Probability)
	assert.True(t, math.IsInf(below.Z, -1))

	d, err := path.DurationFor(0.9)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)
}

func TestDurationForInvertsCompletion(t *testing.T) {
	path := PathEstimate{Expected: 100, Variance: 16, StdDev: 4}
	d, err := path.DurationFor(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 100, d, 1e-9)

	d, err = path.DurationFor(0.95)
	require.NoError(t, err)
	c, err := path.Completion(d)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, c.Probability, 1e-9)

	_, err = path.DurationFor(1)
	assert.Error(t, err)
}

func TestCompletionConcurrentTargets(t *testing.T) {
	reg := sampleRegistry(t)
	path, err := Aggregate(reg, sampleCritical)
	require.NoError(t, err)

	targets := []float64{165, 170, 175, 180, 185}
	got := make([]float64, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target float64) {
			defer wg.Done()
			c, err := path.Completion(target)
			if err == nil {
				got[i] = c.Probability
			}
		}(i, target)
	}
	wg.Wait()
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

var sampleCritical = []string{
	"A", "B", "C1", "C2", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
	"Q1", "Q2", "R1", "R2", "R3", "T1", "T2", "U", "V", "W1", "W2", "X", "Y",
}

func sampleRegistry(t *testing.T) *model.Registry {
	t.Helper()
	ids := []string{"A", "B", "C1", "C2", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N",
		"O1", "O2", "P1", "P2", "P3", "Q1", "Q2", "R1", "R2", "R3", "S1", "S2", "S3",
		"T1", "T2", "U", "V", "W1", "W2", "X", "Y"}
	o := []float64{1, 6, 1, 5, 2, 5, 2, 4, 3, 2, 4, 1, 2, 7, 6, 1, 1, 1, 1, 1, 18, 18, 2, 2, 2, 1, 1, 1, 2, 2, 9, 9, 6, 6, 4, 1}
	m := []float64{1, 8, 2, 7, 3, 7, 3, 6, 4, 3, 5, 2, 3, 9, 8, 2, 2, 2, 2, 2, 22, 22, 3, 3, 3, 2, 2, 2, 3, 3, 12, 12, 8, 8, 6, 1}
	p := []float64{2, 12, 4, 10, 5, 10, 5, 9, 6, 5, 7, 4, 5, 12, 11, 4, 4, 4, 4, 4, 28, 28, 5, 5, 5, 4, 4, 4, 5, 5, 16, 16, 11, 11, 9, 2}
	acts := make([]model.Activity, len(ids))
	for i, id := range ids {
		acts[i] = model.Activity{
			ID:       id,
			Duration: int(m[i]),
			Estimate: &model.Estimate{Optimistic: o[i], MostLikely: m[i], Pessimistic: p[i]},
		}
	}
	reg, err := model.NewRegistry(acts)
	require.NoError(t, err)
	return reg
}

func TestCompletionJSON(t *testing.T) {
	step := PathEstimate{Expected: 5}.CompletionStep(6)
	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":6,"expected":5,"std_dev":0,"z":null,"probability":1,"deterministic":true}`, string(data))

	data, err = json.Marshal(Completion{Target: 7, Expected: 5, StdDev: 2, Z: 1, Probability: 0.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":7,"expected":5,"std_dev":2,"z":1,"probability":0.5}`, string(data))
}
