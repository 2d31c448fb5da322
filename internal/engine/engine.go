// Package engine builds conflict-free, fairness-balanced round-robin match
// schedules. One request in, one immutable result out: every pair of teams
// meets exactly once, no team is double-booked in a slot, and referee duty
// is spread as evenly as the constraints allow. The whole pipeline is
// CPU-bound, synchronous, and deterministic, so identical requests always
// produce identical results.
package engine

// Generate runs the full scheduling pipeline for one category.
func Generate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := req.NumTeams
	names := req.resolveTeamNames()

	fixtures, err := allFixtures(n)
	if err != nil {
		return nil, err
	}

	slots, warnings := newPacker(n, fixtures, req.maxSimultaneous()).pack()

	tally := newRefereeTally(n)
	refs := make([][]int, len(slots))
	if req.NoReferee {
		for i, slot := range slots {
			refs[i] = make([]int, len(slot))
			for j := range refs[i] {
				refs[i][j] = noRefereeIdx
			}
		}
	} else {
		var refWarnings []string
		refs, refWarnings = assignReferees(n, slots, req.DedicatedReferees, names, tally)
		rebalanceReferees(n, slots, refs, req.DedicatedReferees, tally)
		warnings = append(warnings, refWarnings...)
	}

	slotDuration := req.MatchDuration + req.HalfTimeInterval + req.BreakDuration
	morningSlots := morningSlotCount(len(slots), req.LunchBreak, req.SplitRatio)
	startTimes := slotStartTimes(req.StartTime, len(slots), slotDuration, req.LunchBreak, req.BreakDuration, morningSlots)

	matches := buildMatches(slots, refs, names, startTimes)
	warnings = append(warnings, earlyStartWarnings(n, names, slots)...)
	stats := computeStats(n, names, slots, tally, slotDuration, req.BreakDuration)

	return &Result{
		Category:         req.Category,
		Matches:          matches,
		Warnings:         warnings,
		Stats:            stats,
		TeamNames:        names,
		MatchDuration:    req.MatchDuration,
		BreakDuration:    req.BreakDuration,
		HalfTimeInterval: req.HalfTimeInterval,
		LunchBreak:       req.LunchBreak,
		MorningSlots:     morningSlots,
		TotalSlots:       len(slots),
		NoReferee:        req.NoReferee,
		TimeOverrun:      timeOverrunWarning(n, req.MatchDuration, req.TotalGameTime),
	}, nil
}

// buildMatches flattens the packed slots into the final ordered match list.
// Field numbers restart at 1 within each slot.
func buildMatches(slots [][]fixture, refs [][]int, names []string, startTimes []string) []Match {
	var matches []Match
	number := 1
	for slotIdx, slot := range slots {
		for i, f := range slot {
			referee := ""
			if refs[slotIdx][i] != noRefereeIdx {
				referee = names[refs[slotIdx][i]]
			}
			matches = append(matches, Match{
				Number:    number,
				Team1:     names[f.a],
				Team2:     names[f.b],
				Referee:   referee,
				Field:     i + 1,
				Slot:      slotIdx,
				StartTime: startTimes[slotIdx],
			})
			number++
		}
	}
	return matches
}
