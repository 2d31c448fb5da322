package engine

import "testing"

func packFor(t *testing.T, n, maxPerSlot int) [][]fixture {
	t.Helper()
	fixtures, err := allFixtures(n)
	if err != nil {
		t.Fatalf("allFixtures(%d) error: %v", n, err)
	}
	slots, warnings := newPacker(n, fixtures, maxPerSlot).pack()
	if len(warnings) > 0 {
		t.Fatalf("pack(n=%d, max=%d) warnings: %v", n, maxPerSlot, warnings)
	}
	return slots
}

func TestPackSchedulesAllFixtures(t *testing.T) {
	for n := 2; n <= 10; n++ {
		for maxPerSlot := 1; maxPerSlot <= 3; maxPerSlot++ {
			slots := packFor(t, n, maxPerSlot)
			scheduled := make(map[fixture]bool)
			for _, slot := range slots {
				for _, f := range slot {
					if scheduled[f] {
						t.Errorf("n=%d max=%d: fixture %v scheduled twice", n, maxPerSlot, f)
					}
					scheduled[f] = true
				}
			}
			if want := n * (n - 1) / 2; len(scheduled) != want {
				t.Errorf("n=%d max=%d: scheduled %d fixtures, want %d", n, maxPerSlot, len(scheduled), want)
			}
		}
	}
}

func TestPackRespectsSlotCap(t *testing.T) {
	for _, slot := range packFor(t, 6, 2) {
		if len(slot) > 2 {
			t.Errorf("slot %v exceeds cap of 2", slot)
		}
	}
}

func TestPackNoTeamTwicePerSlot(t *testing.T) {
	for n := 4; n <= 10; n++ {
		for _, slot := range packFor(t, n, 3) {
			seen := make(map[int]bool)
			for _, f := range slot {
				if seen[f.a] || seen[f.b] {
					t.Errorf("n=%d: team double-booked in slot %v", n, slot)
				}
				seen[f.a], seen[f.b] = true, true
			}
		}
	}
}

func TestPackMoreFieldsUseFewerSlots(t *testing.T) {
	oneField := packFor(t, 6, 1)
	twoFields := packFor(t, 6, 2)
	if len(twoFields) >= len(oneField) {
		t.Errorf("2 fields used %d slots, 1 field used %d; want fewer", len(twoFields), len(oneField))
	}
}

func TestPackEveryTeamPlaysEarly(t *testing.T) {
	// With 6 teams and 2 fields the rest scoring must get all teams on the
	// pitch within the first two slots.
	slots := packFor(t, 6, 2)
	seen := make(map[int]bool)
	for _, slot := range slots[:2] {
		for _, f := range slot {
			seen[f.a], seen[f.b] = true, true
		}
	}
	if len(seen) != 6 {
		t.Errorf("only %d of 6 teams play in the first two slots", len(seen))
	}
}
