package schedule

import "sort"

// CriticalChains enumerates source-to-finish chains made of critical
// activities linked by tight edges (predecessor EF equals successor ES).
// Several chains may exist; they are returned in topological discovery order
// and at most limit chains are produced (limit <= 0 means no bound).
func (s *Schedule) CriticalChains(limit int) [][]string {
	if len(s.nodes) == 0 {
		return nil
	}
	net := s.net
	tight := func(u, v int) bool {
		return s.nodes[u].Critical && s.nodes[v].Critical && s.nodes[u].EF == s.nodes[v].ES
	}

	var chains [][]string
	var path []int
	var walk func(u int) bool
	walk = func(u int) bool {
		path = append(path, u)
		defer func() { path = path[:len(path)-1] }()

		extended := false
		for _, v := range net.Successors(u) {
			if !tight(u, v) {
				continue
			}
			extended = true
			if walk(v) {
				return true
			}
		}
		if !extended && s.nodes[u].EF == s.duration {
			chain := make([]string, len(path))
			for i, idx := range path {
				chain[i] = s.nodes[idx].ID
			}
			chains = append(chains, chain)
			if limit > 0 && len(chains) >= limit {
				return true
			}
		}
		return false
	}

	for _, u := range net.Order() {
		if !s.nodes[u].Critical || s.nodes[u].ES != 0 {
			continue
		}
		starts := true
		for _, p := range net.Predecessors(u) {
			if tight(p, u) {
				starts = false
				break
			}
		}
		if starts && walk(u) {
			break
		}
	}
	return chains
}

// Waves groups activities by earliest start. Inside a wave critical
// activities come first, then the rest in registry order.
func (s *Schedule) Waves() []Wave {
	groups := make(map[int][]int)
	for i, n := range s.nodes {
		groups[n.ES] = append(groups[n.ES], i)
	}
	starts := make([]int, 0, len(groups))
	for es := range groups {
		starts = append(starts, es)
	}
	sort.Ints(starts)

	waves := make([]Wave, len(starts))
	for w, es := range starts {
		idx := groups[es]
		sort.SliceStable(idx, func(a, b int) bool {
			return s.nodes[idx[a]].Critical && !s.nodes[idx[b]].Critical
		})
		wave := Wave{Index: w, Start: es, Activities: make([]string, len(idx))}
		for k, i := range idx {
			wave.Activities[k] = s.nodes[i].ID
			if s.nodes[i].Critical {
				wave.Critical = true
			}
		}
		waves[w] = wave
	}
	return waves
}
