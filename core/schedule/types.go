package schedule

// Node holds the computed dates of one activity. All values are whole days;
// EF = ES + Duration and LF - LS = Duration hold for every node.
type Node struct {
	ID           string   `json:"id"`
	Duration     int      `json:"duration"`
	Predecessors []string `json:"predecessors"`
	Milestone    bool     `json:"milestone,omitempty"`
	ES           int      `json:"es"`
	EF           int      `json:"ef"`
	LS           int      `json:"ls"`
	LF           int      `json:"lf"`
	TotalFloat   int      `json:"total_float"`
	Critical     bool     `json:"critical"`
}

// Wave groups activities that share the same earliest start and can run in
// parallel.
type Wave struct {
	Index      int      `json:"index"`
	Start      int      `json:"start"`
	Activities []string `json:"activities"`
	Critical   bool     `json:"critical"` // true if the wave holds a critical activity
}

