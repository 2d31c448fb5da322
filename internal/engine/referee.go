package engine

import "fmt"

// noRefereeIdx marks a match that could not get a referee.
const noRefereeIdx = -1

// refereeTally tracks running referee duty counts per team. Threaded
// explicitly through both assignment phases so neither mutates ambient
// state.
type refereeTally struct {
	counts []int
}

func newRefereeTally(n int) *refereeTally {
	return &refereeTally{counts: make([]int, n)}
}

func (t *refereeTally) spreadAndMax() (int, int) {
	min, max := t.counts[0], t.counts[0]
	for _, c := range t.counts[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max - min, max
}

// assignReferees picks a referee for every match of every slot, minimizing
// the duty spread as it goes. Returns per-slot referee indices aligned with
// the slot's matches (noRefereeIdx for gaps) and warnings for any gap.
func assignReferees(n int, slots [][]fixture, dedicated bool, names []string, tally *refereeTally) ([][]int, []string) {
	refs := make([][]int, len(slots))
	var warnings []string

	for slotIdx, slot := range slots {
		playing := make([]bool, n)
		for _, f := range slot {
			playing[f.a] = true
			playing[f.b] = true
		}

		// Candidate pool per match: every non-playing team; the two
		// playing teams only as a fallback under the relaxed policy.
		candidates := make([][]int, len(slot))
		for i, f := range slot {
			for t := 0; t < n; t++ {
				if !playing[t] {
					candidates[i] = append(candidates[i], t)
				}
			}
			if !dedicated {
				candidates[i] = append(candidates[i], f.a, f.b)
			}
		}

		chosen := bestRefereeCombo(candidates, tally)
		refs[slotIdx] = chosen
		for i, ref := range chosen {
			if ref == noRefereeIdx {
				f := slot[i]
				warnings = append(warnings, fmt.Sprintf(
					"no referee available for %s vs %s in slot %d",
					names[f.a], names[f.b], slotIdx))
				continue
			}
			tally.counts[ref]++
		}
	}

	return refs, warnings
}

// bestRefereeCombo enumerates the Cartesian product of the candidate lists,
// discarding combinations that reuse a referee within the slot, and keeps
// the one minimizing (spread, max) of the duty counts after applying it.
// A match whose candidates are all taken is left refereeless.
func bestRefereeCombo(candidates [][]int, tally *refereeTally) []int {
	n := len(tally.counts)
	current := make([]int, len(candidates))
	taken := make([]bool, n)

	var best []int
	bestSpread, bestMax := 0, 0
	found := false

	evaluate := func(combo []int) {
		counts := append([]int(nil), tally.counts...)
		for _, ref := range combo {
			if ref != noRefereeIdx {
				counts[ref]++
			}
		}
		min, max := counts[0], counts[0]
		for _, c := range counts[1:] {
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		spread := max - min
		if !found || spread < bestSpread || (spread == bestSpread && max < bestMax) {
			found = true
			bestSpread, bestMax = spread, max
			best = append(best[:0], combo...)
		}
	}

	var walk func(match int)
	walk = func(match int) {
		if match == len(candidates) {
			evaluate(current)
			return
		}
		assigned := false
		for _, ref := range candidates[match] {
			if taken[ref] {
				continue
			}
			assigned = true
			taken[ref] = true
			current[match] = ref
			walk(match + 1)
			taken[ref] = false
		}
		if !assigned {
			current[match] = noRefereeIdx
			walk(match + 1)
		}
	}
	walk(0)

	return best
}

// rebalanceReferees evens out duty counts after the per-slot pass. A duty
// moves from a loaded team to a lighter one either directly or along a
// takeover chain: each intermediate team picks up the previous holder's
// duty and hands one of its own further down. Stops at spread <= 1 or when
// no chain reduces the imbalance.
func rebalanceReferees(n int, slots [][]fixture, refs [][]int, dedicated bool, tally *refereeTally) {
	for {
		spread, _ := tally.spreadAndMax()
		if spread <= 1 {
			return
		}
		if !shiftOneDuty(n, slots, refs, dedicated, tally) {
			return
		}
	}
}

// dutyRef addresses one refereeing duty.
type dutyRef struct {
	slot, match int
}

// shiftOneDuty tries donors from the most loaded down and applies the
// first takeover chain that ends at a team with at least two fewer duties.
func shiftOneDuty(n int, slots [][]fixture, refs [][]int, dedicated bool, tally *refereeTally) bool {
	_, max := tally.spreadAndMax()
	for count := max; count >= 2; count-- {
		for donor := 0; donor < n; donor++ {
			if tally.counts[donor] != count {
				continue
			}
			if chainFrom(n, slots, refs, dedicated, tally, donor) {
				return true
			}
		}
	}
	return false
}

// chainFrom searches breadth-first for a chain of legal takeovers starting
// at donor. Every hop hands one of the current holder's duties to a team
// not yet on the chain; the chain applies as soon as it reaches a team at
// least two duties below the donor, leaving intermediate counts unchanged.
func chainFrom(n int, slots [][]fixture, refs [][]int, dedicated bool, tally *refereeTally, donor int) bool {
	parent := make([]int, n)
	via := make([]dutyRef, n)
	visited := make([]bool, n)
	visited[donor] = true
	parent[donor] = -1

	queue := []int{donor}
	for len(queue) > 0 {
		holder := queue[0]
		queue = queue[1:]

		for slotIdx, slot := range slots {
			for i, ref := range refs[slotIdx] {
				if ref != holder {
					continue
				}
				for taker := 0; taker < n; taker++ {
					if visited[taker] || !canTakeOver(slot, refs[slotIdx], taker, i, dedicated) {
						continue
					}
					visited[taker] = true
					parent[taker] = holder
					via[taker] = dutyRef{slot: slotIdx, match: i}
					if tally.counts[taker] <= tally.counts[donor]-2 {
						for t := taker; parent[t] != -1; t = parent[t] {
							d := via[t]
							refs[d.slot][d.match] = t
						}
						tally.counts[donor]--
						tally.counts[taker]++
						return true
					}
					queue = append(queue, taker)
				}
			}
		}
	}
	return false
}

// canTakeOver reports whether team may referee slot's match at index
// match: it must not already referee another match in the slot, and it may
// only be playing there when the relaxed policy lets it take its own match.
func canTakeOver(slot []fixture, refs []int, team, match int, dedicated bool) bool {
	for i, ref := range refs {
		if i != match && ref == team {
			return false
		}
	}
	for i, f := range slot {
		if !f.has(team) {
			continue
		}
		if dedicated || i != match {
			return false
		}
	}
	return true
}
