package evm

// Schedule status labels.
const (
	BehindSchedule  = "Behind Schedule"
	AheadOfSchedule = "Ahead of Schedule"
	OnSchedule      = "On Schedule"
)

// Assessment summarizes a snapshot in words.
type Assessment struct {
	Schedule string `json:"schedule"`
	Cost     string `json:"cost"`
	// NeedsImprovement is set when TCPI exceeds 1.1.
	NeedsImprovement bool `json:"needs_improvement"`
}

// Assess grades SPI and CPI with a ±5% tolerance band around 1.
func Assess(s Snapshot) Assessment {
	a := Assessment{Schedule: OnSchedule, Cost: OnBudget, NeedsImprovement: s.TCPI > 1.1}
	switch {
	case s.SPI < 0.95:
		a.Schedule = BehindSchedule
	case s.SPI > 1.05:
		a.Schedule = AheadOfSchedule
	}
	switch {
	case s.CPI < 0.95:
		a.Cost = OverBudget
	case s.CPI > 1.05:
		a.Cost = UnderBudget
	}
	return a
}
