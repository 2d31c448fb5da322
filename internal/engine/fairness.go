package engine

import (
	"fmt"
	"strings"
)

// computeStats builds the per-team summary: matches played, referee duties,
// and the longest idle stretch in minutes. maxWait uses the ordinary slot
// duration uniformly, so idle time spanning the lunch break is undercounted
// on purpose.
func computeStats(n int, names []string, slots [][]fixture, tally *refereeTally, slotDuration, breakDuration int) map[string]TeamStats {
	playedSlots := make([][]int, n)
	for slotIdx, slot := range slots {
		for _, f := range slot {
			playedSlots[f.a] = append(playedSlots[f.a], slotIdx)
			playedSlots[f.b] = append(playedSlots[f.b], slotIdx)
		}
	}

	stats := make(map[string]TeamStats, n)
	for t := 0; t < n; t++ {
		maxWait := 0
		for i := 1; i < len(playedSlots[t]); i++ {
			gap := playedSlots[t][i] - playedSlots[t][i-1]
			wait := (gap-1)*slotDuration + breakDuration
			if wait > maxWait {
				maxWait = wait
			}
		}
		stats[names[t]] = TeamStats{
			Played:   len(playedSlots[t]),
			Refereed: tally.counts[t],
			MaxWait:  maxWait,
		}
	}
	return stats
}

// earlyStartWarnings reports teams that never play at all and teams whose
// first match comes after the first two slots.
func earlyStartWarnings(n int, names []string, slots [][]fixture) []string {
	firstSlot := make([]int, n)
	for i := range firstSlot {
		firstSlot[i] = -1
	}
	for slotIdx, slot := range slots {
		for _, f := range slot {
			if firstSlot[f.a] == -1 {
				firstSlot[f.a] = slotIdx
			}
			if firstSlot[f.b] == -1 {
				firstSlot[f.b] = slotIdx
			}
		}
	}

	var warnings []string
	var neverPlays, lateStarters []string
	for t := 0; t < n; t++ {
		switch {
		case firstSlot[t] == -1:
			neverPlays = append(neverPlays, names[t])
		case firstSlot[t] > 1:
			lateStarters = append(lateStarters, names[t])
		}
	}
	if len(neverPlays) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"teams without any scheduled match: %s", strings.Join(neverPlays, ", ")))
	}
	if len(lateStarters) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"teams that first play after slot 2: %s", strings.Join(lateStarters, ", ")))
	}
	return warnings
}

// timeOverrunWarning compares each team's guaranteed playing time under
// round robin against the requested budget. Half-time minutes are not
// playing time and are excluded.
func timeOverrunWarning(n, matchDuration, budget int) string {
	if budget <= 0 {
		return ""
	}
	total := (n - 1) * matchDuration
	if total <= budget {
		return ""
	}
	return fmt.Sprintf("total playing time per team (%d min) exceeds the requested limit (%d min)", total, budget)
}
