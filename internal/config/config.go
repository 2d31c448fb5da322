package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torneoapp/torneo/internal/engine"
)

// durations holds the built-in per-category defaults applied when a
// category block leaves match or break duration unset.
type durations struct {
	match int
	brk   int
}

var categoryDefaults = map[string]durations{
	"U6":  {match: 10, brk: 5},
	"U8":  {match: 10, brk: 5},
	"U10": {match: 10, brk: 5},
	"U12": {match: 12, brk: 5},
}

const (
	defaultMatchDuration = 10
	defaultBreakDuration = 5
	defaultStartTime     = "09:00"
)

type Event struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"` // "YYYY-MM-DD"
}

type Category struct {
	Name              string   `yaml:"name"`
	Teams             int      `yaml:"teams"`
	TeamNames         []string `yaml:"team_names"`
	Fields            int      `yaml:"fields"`
	StartTime         string   `yaml:"start_time"`
	MatchDuration     int      `yaml:"match_duration"`
	BreakDuration     int      `yaml:"break_duration"`
	HalfTimeInterval  int      `yaml:"half_time_interval"`
	LunchBreak        int      `yaml:"lunch_break"`
	SplitRatio        string   `yaml:"split_ratio"`
	TotalGameTime     int      `yaml:"total_game_time"`
	NoReferee         bool     `yaml:"no_referee"`
	DedicatedReferees bool     `yaml:"dedicated_referees"`
}

type Config struct {
	Event      Event      `yaml:"event"`
	Categories []Category `yaml:"categories"`
}

// LoadFromBytes parses YAML bytes into a Config, fills in category
// defaults, and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	for i := range c.Categories {
		cat := &c.Categories[i]
		def, known := categoryDefaults[cat.Name]
		if !known {
			def = durations{match: defaultMatchDuration, brk: defaultBreakDuration}
		}
		if cat.MatchDuration == 0 {
			cat.MatchDuration = def.match
		}
		if cat.BreakDuration == 0 {
			cat.BreakDuration = def.brk
		}
		if cat.Fields == 0 {
			cat.Fields = 1
		}
		if cat.StartTime == "" {
			cat.StartTime = defaultStartTime
		}
		if cat.Teams == 0 && len(cat.TeamNames) > 0 {
			cat.Teams = len(cat.TeamNames)
		}
		if cat.LunchBreak > 0 && cat.SplitRatio == "" {
			cat.SplitRatio = engine.SplitHalf
		}
	}
}

func (c *Config) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	if c.Event.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Event.Date); err != nil {
			return fmt.Errorf("invalid event date %q: %w", c.Event.Date, err)
		}
	}

	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category without a name")
		}
		if seen[cat.Name] {
			return fmt.Errorf("category %q appears twice", cat.Name)
		}
		seen[cat.Name] = true

		if err := cat.request().Validate(); err != nil {
			return fmt.Errorf("category %q: %w", cat.Name, err)
		}
	}
	return nil
}

func (cat Category) request() engine.Request {
	return engine.Request{
		Category:          cat.Name,
		NumTeams:          cat.Teams,
		NumFields:         cat.Fields,
		StartTime:         cat.StartTime,
		MatchDuration:     cat.MatchDuration,
		BreakDuration:     cat.BreakDuration,
		HalfTimeInterval:  cat.HalfTimeInterval,
		LunchBreak:        cat.LunchBreak,
		SplitRatio:        cat.SplitRatio,
		TotalGameTime:     cat.TotalGameTime,
		TeamNames:         cat.TeamNames,
		NoReferee:         cat.NoReferee,
		DedicatedReferees: cat.DedicatedReferees,
	}
}

// Requests converts the config into one engine request per category.
func (c *Config) Requests() []engine.Request {
	reqs := make([]engine.Request, len(c.Categories))
	for i, cat := range c.Categories {
		reqs[i] = cat.request()
	}
	return reqs
}
