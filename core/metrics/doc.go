// Package metrics defines the sinks that receive analysis results. Every sink
// records the schedule of a run; sinks that also care about resource
// timelines, completion probabilities or earned value implement the matching
// recorder interface. MultiSink forwards to several sinks at once and the
// factory helpers build one automatically when more than one sink is
// configured.
package metrics
