package engine

import "fmt"

// fixture is an unordered pair of team indices, a < b.
type fixture struct {
	a, b int
}

func (f fixture) has(team int) bool {
	return f.a == team || f.b == team
}

// roundRobinRounds generates all C(n,2) fixtures grouped into rounds by the
// circle method: team 0 stays fixed while the rest rotate, so each round is
// team-disjoint.
func roundRobinRounds(n int) [][]fixture {
	teams := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		teams = append(teams, i)
	}
	if n%2 == 1 {
		teams = append(teams, -1) // bye
	}

	rounds := make([][]fixture, 0, len(teams)-1)
	for r := 0; r < len(teams)-1; r++ {
		var round []fixture
		for i := 0; i < len(teams)/2; i++ {
			t1 := teams[i]
			t2 := teams[len(teams)-1-i]
			if t1 == -1 || t2 == -1 {
				continue
			}
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			round = append(round, fixture{t1, t2})
		}
		rounds = append(rounds, round)

		// Rotate: keep teams[0], move the last into position 1.
		last := teams[len(teams)-1]
		copy(teams[2:], teams[1:len(teams)-1])
		teams[1] = last
	}
	return rounds
}

// allFixtures returns every unordered team pair exactly once, in round-robin
// order. The order is what keeps packing deterministic.
func allFixtures(n int) ([]fixture, error) {
	if n < 2 {
		return nil, fmt.Errorf("at least 2 teams are required, got %d", n)
	}
	var fixtures []fixture
	for _, round := range roundRobinRounds(n) {
		fixtures = append(fixtures, round...)
	}
	return fixtures, nil
}
