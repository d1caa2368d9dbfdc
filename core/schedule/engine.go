// Package schedule implements the critical path method over a validated
// activity network.
package schedule

import (
	"github.com/kilianp07/pmsched/core/network"
)

// Schedule is the result of one engine run. It is never modified after
// Compute returns; a new run produces a new Schedule.
type Schedule struct {
	net      *network.Network
	nodes    []Node // by registry index
	duration int
}

// Compute runs the forward and backward passes.
//
// Forward pass in topological order: sources start at 0, every other node
// starts at the latest finish of its predecessors. The project duration is
// the latest early finish over all nodes, so several sinks are fine. Backward
// pass in reverse order: sinks finish at the project duration, every other
// node finishes at the earliest late start of its successors.
func Compute(net *network.Network) *Schedule {
	n := net.Len()
	s := &Schedule{net: net, nodes: make([]Node, n)}
	order := net.Order()

	for _, i := range order {
		es := 0
		for _, p := range net.Predecessors(i) {
			if s.nodes[p].EF > es {
				es = s.nodes[p].EF
			}
		}
		d := net.Duration(i)
		preds, _ := net.PredecessorIDs(net.ID(i))
		s.nodes[i] = Node{
			ID:           net.ID(i),
			Duration:     d,
			Predecessors: preds,
			Milestone:    net.Registry().At(i).Milestone(),
			ES:           es,
			EF:           es + d,
		}
		if s.nodes[i].EF > s.duration {
			s.duration = s.nodes[i].EF
		}
	}

	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		node := &s.nodes[i]
		succs := net.Successors(i)
		lf := s.duration
		if len(succs) > 0 {
			lf = s.nodes[succs[0]].LS
			for _, v := range succs[1:] {
				if s.nodes[v].LS < lf {
					lf = s.nodes[v].LS
				}
			}
		}
		node.LF = lf
		node.LS = lf - node.Duration
		node.TotalFloat = node.LS - node.ES
		node.Critical = node.TotalFloat == 0
	}
	return s
}

// Network returns the network the schedule was computed from.
func (s *Schedule) Network() *network.Network { return s.net }

// ProjectDuration returns the latest early finish, 0 for an empty network.
func (s *Schedule) ProjectDuration() int { return s.duration }

// Len returns the number of nodes.
func (s *Schedule) Len() int { return len(s.nodes) }

// Nodes returns the nodes in registry order.
func (s *Schedule) Nodes() []Node { return append([]Node(nil), s.nodes...) }

// At returns the node with registry index i.
func (s *Schedule) At(i int) Node { return s.nodes[i] }

// Node returns the node for id.
func (s *Schedule) Node(id string) (Node, bool) {
	i, ok := s.net.Registry().Index(id)
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Endpoints returns the activities without predecessors and those without
// successors, both in registry order.
func (s *Schedule) Endpoints() (start, finish []string) {
	for _, i := range s.net.Sources() {
		start = append(start, s.nodes[i].ID)
	}
	for _, i := range s.net.Sinks() {
		finish = append(finish, s.nodes[i].ID)
	}
	return start, finish
}

// Critical returns the zero-float activities in registry order.
func (s *Schedule) Critical() []string {
	var out []string
	for _, n := range s.nodes {
		if n.Critical {
			out = append(out, n.ID)
		}
	}
	return out
}

// ActiveOn returns the activities whose interval [ES, EF) covers day, in
// registry order.
func (s *Schedule) ActiveOn(day int) []string {
	var out []string
	for _, n := range s.nodes {
		if n.ES <= day && day < n.EF {
			out = append(out, n.ID)
		}
	}
	return out
}
