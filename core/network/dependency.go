package network

import "strings"

// NoPredecessors is the dependency-table token for an activity without
// predecessors.
const NoPredecessors = "-"

// Dependency lists the direct predecessors of one activity.
type Dependency struct {
	Activity     string   `json:"activity" yaml:"activity"`
	Predecessors []string `json:"predecessors" yaml:"predecessors"`
}

// ParsePredecessors splits a comma-separated predecessor cell. The sentinel
// token and blank cells yield an empty list; surrounding whitespace is
// trimmed from every entry.
func ParsePredecessors(cell, sentinel string) []string {
	if sentinel == "" {
		sentinel = NoPredecessors
	}
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == sentinel {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == sentinel {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatPredecessors is the inverse of ParsePredecessors.
func FormatPredecessors(preds []string, sentinel string) string {
	if len(preds) == 0 {
		if sentinel == "" {
			return NoPredecessors
		}
		return sentinel
	}
	return strings.Join(preds, ",")
}
