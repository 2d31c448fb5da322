package engine

// neverPlayed is the lastPlayed sentinel. Far enough in the past that any
// team yet to play looks maximally rested in every comparison.
const neverPlayed = -1 << 20

// couldNotScheduleWarning is recorded when packing stalls with fixtures
// still unscheduled. With maxSimultaneous >= 1 this should never happen,
// but a partial schedule beats no schedule.
const couldNotScheduleWarning = "could not schedule all matches; some fixtures are missing from the schedule"

// packer fills slots one at a time with the best non-conflicting fixture
// subset. Fairness lives in the score tuple, not in the fixture order.
type packer struct {
	n          int
	maxPerSlot int
	remaining  []fixture
	lastPlayed []int
}

func newPacker(n int, fixtures []fixture, maxPerSlot int) *packer {
	lastPlayed := make([]int, n)
	for i := range lastPlayed {
		lastPlayed[i] = neverPlayed
	}
	return &packer{
		n:          n,
		maxPerSlot: maxPerSlot,
		remaining:  append([]fixture(nil), fixtures...),
		lastPlayed: lastPlayed,
	}
}

// pack schedules all remaining fixtures into slots. Returns the slots plus
// any warnings from a packing stall.
func (p *packer) pack() ([][]fixture, []string) {
	var slots [][]fixture
	var warnings []string

	for len(p.remaining) > 0 {
		slotIndex := len(slots)
		best := p.bestSubset(slotIndex)
		if len(best) == 0 {
			warnings = append(warnings, couldNotScheduleWarning)
			break
		}

		slot := make([]fixture, len(best))
		picked := make(map[int]bool, len(best))
		for i, idx := range best {
			f := p.remaining[idx]
			slot[i] = f
			picked[idx] = true
			p.lastPlayed[f.a] = slotIndex
			p.lastPlayed[f.b] = slotIndex
		}

		rest := p.remaining[:0]
		for i, f := range p.remaining {
			if !picked[i] {
				rest = append(rest, f)
			}
		}
		p.remaining = rest
		slots = append(slots, slot)
	}

	return slots, warnings
}

// subsetScore is the ordered score tuple for a candidate slot, compared
// greatest-first field by field.
type subsetScore struct {
	size      int // fill as many fields as possible
	minRest   int // the least-rested team in the subset should be as rested as possible
	negMaxDeg int // leave a packable residual: minimize the max remaining degree
	totalRest int // final tiebreak: total rest across the subset's teams
}

func (s subsetScore) betterThan(o subsetScore) bool {
	if s.size != o.size {
		return s.size > o.size
	}
	if s.minRest != o.minRest {
		return s.minRest > o.minRest
	}
	if s.negMaxDeg != o.negMaxDeg {
		return s.negMaxDeg > o.negMaxDeg
	}
	return s.totalRest > o.totalRest
}

// bestSubset exhaustively enumerates team-disjoint fixture subsets up to
// maxPerSlot and returns the indices of the best one. The search is bounded
// by tournament-scale inputs; ties keep the first subset found, which pins
// the result to the fixture order.
func (p *packer) bestSubset(slotIndex int) []int {
	var best []int
	var bestScore subsetScore
	found := false

	current := make([]int, 0, p.maxPerSlot)
	inUse := make([]bool, p.n)

	var walk func(start int)
	walk = func(start int) {
		if len(current) > 0 {
			score := p.score(current, slotIndex)
			if !found || score.betterThan(bestScore) {
				found = true
				bestScore = score
				best = append(best[:0], current...)
			}
		}
		if len(current) == p.maxPerSlot {
			return
		}
		for i := start; i < len(p.remaining); i++ {
			f := p.remaining[i]
			if inUse[f.a] || inUse[f.b] {
				continue
			}
			inUse[f.a], inUse[f.b] = true, true
			current = append(current, i)
			walk(i + 1)
			current = current[:len(current)-1]
			inUse[f.a], inUse[f.b] = false, false
		}
	}
	walk(0)

	return best
}

func (p *packer) score(subset []int, slotIndex int) subsetScore {
	inSubset := make(map[int]bool, len(subset))
	for _, idx := range subset {
		inSubset[idx] = true
	}

	minRest := int(^uint(0) >> 1)
	totalRest := 0
	for _, idx := range subset {
		f := p.remaining[idx]
		restA := slotIndex - p.lastPlayed[f.a]
		restB := slotIndex - p.lastPlayed[f.b]
		pairMin := restA
		if restB < pairMin {
			pairMin = restB
		}
		if pairMin < minRest {
			minRest = pairMin
		}
		totalRest += restA + restB
	}

	// Degree of each team in the residual fixture graph.
	degree := make([]int, p.n)
	maxDeg := 0
	for i, f := range p.remaining {
		if inSubset[i] {
			continue
		}
		degree[f.a]++
		degree[f.b]++
		if degree[f.a] > maxDeg {
			maxDeg = degree[f.a]
		}
		if degree[f.b] > maxDeg {
			maxDeg = degree[f.b]
		}
	}

	return subsetScore{
		size:      len(subset),
		minRest:   minRest,
		negMaxDeg: -maxDeg,
		totalRest: totalRest,
	}
}
