package mqtt

import (
	"context"
	"strings"
	"time"
)

// Report sections published by the analysis pipeline.
const (
	SectionSchedule    = "schedule"
	SectionPERT        = "pert"
	SectionResources   = "resources"
	SectionPerformance = "performance"
	SectionRisk        = "risk"
)

// Message is one section of an analysis report.
type Message struct {
	RunID   string
	Project string
	Section string
	Time    time.Time
	Body    any
}

// Publisher sends analysis reports to a broker.
type Publisher interface {
	// Publish sends msg under <prefix>/<section>. It returns when the broker
	// acknowledged the message or ctx is done.
	Publish(ctx context.Context, msg Message) error
}

// Topic joins prefix and section with a single slash.
func Topic(prefix, section string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return section
	}
	return prefix + "/" + section
}
