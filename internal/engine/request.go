package engine

import (
	"fmt"
	"time"
)

// Request holds the scheduling parameters for one tournament category.
type Request struct {
	Category          string
	NumTeams          int
	NumFields         int
	StartTime         string // "HH:MM"
	MatchDuration     int    // minutes
	BreakDuration     int    // minutes between slots
	HalfTimeInterval  int    // minutes inside each match, 0 = none
	LunchBreak        int    // minutes, 0 = no lunch break
	SplitRatio        string // "half" or "two_thirds"
	TotalGameTime     int    // per-team playing-time budget in minutes, 0 = none
	TeamNames         []string
	NoReferee         bool
	DedicatedReferees bool
}

const (
	SplitHalf      = "half"
	SplitTwoThirds = "two_thirds"
)

// Validate rejects requests that cannot be scheduled at all. Malformed
// team-name lists are not an error; they fall back to synthetic names.
func (r Request) Validate() error {
	if r.NumTeams < 2 {
		return fmt.Errorf("at least 2 teams are required, got %d", r.NumTeams)
	}
	if r.NumFields < 1 {
		return fmt.Errorf("at least 1 field is required, got %d", r.NumFields)
	}
	if r.MatchDuration <= 0 {
		return fmt.Errorf("match duration must be positive, got %d", r.MatchDuration)
	}
	if r.BreakDuration <= 0 {
		return fmt.Errorf("break duration must be positive, got %d", r.BreakDuration)
	}
	if r.HalfTimeInterval < 0 {
		return fmt.Errorf("half-time interval cannot be negative, got %d", r.HalfTimeInterval)
	}
	if r.LunchBreak < 0 {
		return fmt.Errorf("lunch break cannot be negative, got %d", r.LunchBreak)
	}
	if r.LunchBreak > 0 {
		switch r.SplitRatio {
		case "", SplitHalf, SplitTwoThirds:
		default:
			return fmt.Errorf("unknown split ratio %q", r.SplitRatio)
		}
	}
	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		return fmt.Errorf("invalid start time %q: %w", r.StartTime, err)
	}
	return nil
}

// resolveTeamNames returns the caller's names when the count matches,
// synthetic names otherwise.
func (r Request) resolveTeamNames() []string {
	if len(r.TeamNames) == r.NumTeams {
		return append([]string(nil), r.TeamNames...)
	}
	names := make([]string, r.NumTeams)
	for i := range names {
		names[i] = fmt.Sprintf("Team %d", i+1)
	}
	return names
}

// maxSimultaneous caps how many matches can run in one slot. The field
// count is further limited by the referee pool: with dedicated referees a
// match consumes three teams, otherwise two.
func (r Request) maxSimultaneous() int {
	cap := r.NumTeams / 2
	if r.DedicatedReferees {
		cap = r.NumTeams / 3
	}
	if cap > r.NumFields {
		cap = r.NumFields
	}
	if cap < 1 {
		cap = 1
	}
	return cap
}

// Match is one scheduled game in the final ordering.
type Match struct {
	Number    int    `json:"number"`
	Team1     string `json:"team1"`
	Team2     string `json:"team2"`
	Referee   string `json:"referee,omitempty"`
	Field     int    `json:"field"` // 1-based
	Slot      int    `json:"slot"`  // 0-based
	StartTime string `json:"start_time"`
}

// TeamStats summarizes one team's day.
type TeamStats struct {
	Played   int `json:"played"`
	Refereed int `json:"refereed"`
	MaxWait  int `json:"max_wait"` // minutes
}

// Result is the complete schedule for one category. It is immutable once
// returned; exporters and the service only read it.
type Result struct {
	Category         string               `json:"category"`
	Matches          []Match              `json:"matches"`
	Warnings         []string             `json:"warnings"`
	Stats            map[string]TeamStats `json:"stats"`
	TeamNames        []string             `json:"team_names"` // index order
	MatchDuration    int                  `json:"match_duration"`
	BreakDuration    int                  `json:"break_duration"`
	HalfTimeInterval int                  `json:"half_time_interval"`
	LunchBreak       int                  `json:"lunch_break"`
	MorningSlots     int                  `json:"morning_slots"` // 0 = no lunch split
	TotalSlots       int                  `json:"total_slots"`
	NoReferee        bool                 `json:"no_referee"`
	TimeOverrun      string               `json:"time_overrun,omitempty"`
}

// SlotDuration is the wall-clock length of one slot.
func (r *Result) SlotDuration() int {
	return r.MatchDuration + r.HalfTimeInterval + r.BreakDuration
}

// RestingPerSlot returns, for each slot, the teams neither playing nor
// refereeing, in team-index order.
func (r *Result) RestingPerSlot() map[int][]string {
	busy := make(map[int]map[string]bool)
	for _, m := range r.Matches {
		if busy[m.Slot] == nil {
			busy[m.Slot] = make(map[string]bool)
		}
		busy[m.Slot][m.Team1] = true
		busy[m.Slot][m.Team2] = true
		if m.Referee != "" {
			busy[m.Slot][m.Referee] = true
		}
	}
	resting := make(map[int][]string, r.TotalSlots)
	for slot := 0; slot < r.TotalSlots; slot++ {
		for _, name := range r.TeamNames {
			if !busy[slot][name] {
				resting[slot] = append(resting[slot], name)
			}
		}
	}
	return resting
}
