// Package validator reads a generated workbook back and checks it against
// the scheduling invariants: every pair plays exactly once, no team is
// double-booked in a time slot, referees are legal, and field numbers stay
// within the configured count.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/torneoapp/torneo/internal/config"
)

// Violation is one broken rule found during validation.
type Violation struct {
	Category string
	Type     string // "error" or "warning"
	Message  string
}

// Validate opens a schedule workbook and checks every category sheet that
// has a matching config block.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var violations []Violation
	for _, cat := range cfg.Categories {
		matches, err := readMatches(f, cat.Name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", cat.Name, err)
		}
		violations = append(violations, checkCategory(cat, matches)...)
	}
	return violations, nil
}

type parsedMatch struct {
	Number  int
	Time    string
	Field   int
	Team1   string
	Team2   string
	Referee string
}

// readMatches parses match rows from a category sheet. A match row starts
// with the sequential match number; annotation rows (resting, lunch break,
// notes, statistics) never do.
func readMatches(f *excelize.File, sheet string) ([]parsedMatch, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var matches []parsedMatch
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		field := 0
		fmt.Sscanf(row[2], "Field %d", &field)
		m := parsedMatch{
			Number: number,
			Time:   row[1],
			Field:  field,
			Team1:  row[3],
			Team2:  row[4],
		}
		if len(row) > 5 {
			m.Referee = row[5]
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func checkCategory(cat config.Category, matches []parsedMatch) []Violation {
	var violations []Violation
	add := func(kind, format string, args ...any) {
		violations = append(violations, Violation{
			Category: cat.Name,
			Type:     kind,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	names := resolvedNames(cat)
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	// Pair coverage: every pair exactly once.
	pairCount := make(map[string]int)
	for _, m := range matches {
		if !known[m.Team1] || !known[m.Team2] {
			add("error", "match %d: unknown team in %q vs %q", m.Number, m.Team1, m.Team2)
			continue
		}
		pairCount[pairKey(m.Team1, m.Team2)]++
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			key := pairKey(names[i], names[j])
			switch pairCount[key] {
			case 0:
				add("error", "%s vs %s is missing", names[i], names[j])
			case 1:
			default:
				add("error", "%s vs %s scheduled %d times", names[i], names[j], pairCount[key])
			}
		}
	}

	// Per-time-slot checks.
	byTime := make(map[string][]parsedMatch)
	var times []string
	for _, m := range matches {
		if _, seen := byTime[m.Time]; !seen {
			times = append(times, m.Time)
		}
		byTime[m.Time] = append(byTime[m.Time], m)
	}

	for _, t := range times {
		group := byTime[t]
		playing := make(map[string]int)
		fields := make(map[int]bool)
		refs := make(map[string]bool)

		for _, m := range group {
			playing[m.Team1]++
			playing[m.Team2]++

			if m.Field < 1 || m.Field > cat.Fields {
				add("error", "match %d at %s: field %d outside 1..%d", m.Number, t, m.Field, cat.Fields)
			}
			if fields[m.Field] {
				add("error", "field %d used twice at %s", m.Field, t)
			}
			fields[m.Field] = true

			if m.Referee == "" {
				continue
			}
			if m.Referee == m.Team1 || m.Referee == m.Team2 {
				if cat.DedicatedReferees {
					add("error", "match %d at %s: referee %s is playing in it", m.Number, t, m.Referee)
				}
			}
			if refs[m.Referee] {
				add("error", "%s referees two matches at %s", m.Referee, t)
			}
			refs[m.Referee] = true
		}

		for team, count := range playing {
			if count > 1 {
				add("error", "%s plays %d matches at %s", team, count, t)
			}
		}
		if cat.DedicatedReferees {
			for ref := range refs {
				if playing[ref] > 0 {
					add("error", "%s both plays and referees at %s", ref, t)
				}
			}
		}
	}

	if cat.NoReferee {
		for _, m := range matches {
			if m.Referee != "" {
				add("warning", "match %d carries referee %s despite the no-referee policy", m.Number, m.Referee)
			}
		}
	}

	return violations
}

// resolvedNames mirrors the engine's team-name fallback so the validator
// compares against the names that were actually scheduled.
func resolvedNames(cat config.Category) []string {
	if len(cat.TeamNames) == cat.Teams {
		return cat.TeamNames
	}
	names := make([]string, cat.Teams)
	for i := range names {
		names[i] = fmt.Sprintf("Team %d", i+1)
	}
	return names
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
