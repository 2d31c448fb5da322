package engine

import "testing"

func TestAllFixtures(t *testing.T) {
	t.Run("rejects fewer than 2 teams", func(t *testing.T) {
		for _, n := range []int{-1, 0, 1} {
			if _, err := allFixtures(n); err == nil {
				t.Errorf("allFixtures(%d) = nil error, want error", n)
			}
		}
	})

	t.Run("generates n*(n-1)/2 unique pairs", func(t *testing.T) {
		for n := 2; n <= 10; n++ {
			fixtures, err := allFixtures(n)
			if err != nil {
				t.Fatalf("allFixtures(%d) error: %v", n, err)
			}
			want := n * (n - 1) / 2
			if len(fixtures) != want {
				t.Errorf("allFixtures(%d) = %d fixtures, want %d", n, len(fixtures), want)
			}
			seen := make(map[fixture]bool)
			for _, f := range fixtures {
				if seen[f] {
					t.Errorf("allFixtures(%d): duplicate pair %v", n, f)
				}
				seen[f] = true
			}
		}
	})

	t.Run("pairs are ordered a<b", func(t *testing.T) {
		fixtures, _ := allFixtures(6)
		for _, f := range fixtures {
			if f.a >= f.b {
				t.Errorf("fixture %v not ordered", f)
			}
		}
	})
}

func TestRoundRobinRounds(t *testing.T) {
	t.Run("no team appears twice in a round", func(t *testing.T) {
		for n := 3; n <= 10; n++ {
			for i, round := range roundRobinRounds(n) {
				seen := make(map[int]bool)
				for _, f := range round {
					if seen[f.a] || seen[f.b] {
						t.Errorf("n=%d round %d: team repeated in %v", n, i, round)
					}
					seen[f.a], seen[f.b] = true, true
				}
			}
		}
	})

	t.Run("odd team counts get a bye", func(t *testing.T) {
		for _, round := range roundRobinRounds(5) {
			if len(round) != 2 {
				t.Errorf("round %v has %d pairs, want 2", round, len(round))
			}
		}
	})
}
