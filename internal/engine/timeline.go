package engine

import "time"

// morningSlotCount computes the slot index where the lunch break is
// inserted: ceil(totalSlots * ratio). Zero when no lunch break is
// requested.
func morningSlotCount(totalSlots, lunchBreak int, splitRatio string) int {
	if lunchBreak <= 0 || totalSlots == 0 {
		return 0
	}
	if splitRatio == SplitTwoThirds {
		return (totalSlots*2 + 2) / 3
	}
	return (totalSlots + 1) / 2
}

// slotStartTimes converts slot indices into wall-clock "HH:MM" strings.
// Slots at or past morningSlots are shifted once by the lunch gap, which
// replaces (rather than adds to) the ordinary inter-slot break.
func slotStartTimes(startTime string, totalSlots, slotDuration, lunchBreak, breakDuration, morningSlots int) []string {
	base, _ := time.Parse("15:04", startTime) // validated with the request

	times := make([]string, totalSlots)
	for slot := 0; slot < totalSlots; slot++ {
		offset := slot * slotDuration
		if lunchBreak > 0 && slot >= morningSlots {
			offset += lunchBreak - breakDuration
		}
		times[slot] = base.Add(time.Duration(offset) * time.Minute).Format("15:04")
	}
	return times
}
