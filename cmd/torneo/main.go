package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/torneoapp/torneo/internal/config"
	"github.com/torneoapp/torneo/internal/engine"
	"github.com/torneoapp/torneo/internal/excel"
	"github.com/torneoapp/torneo/internal/server"
	"github.com/torneoapp/torneo/internal/session"
	"github.com/torneoapp/torneo/internal/validator"
)

const (
	defaultConfigFile = "torneo.yaml"
	defaultSessionDB  = "sessions.db"
)

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "torneo",
		Short: "Round-robin youth tournament schedule generator",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: torneo.yaml in current directory)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter torneo.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate schedules from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against config rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	var serveDB string
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Run the scheduling HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveDB)
		},
	}
	serveCmd.Flags().StringVar(&serveDB, "db", defaultSessionDB, "Path to the session database")

	var sessionsDB string
	sessionsCmd := &cobra.Command{
		Use:          "sessions",
		Short:        "List saved scheduling sessions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(sessionsDB)
		},
	}
	sessionsCmd.Flags().StringVar(&sessionsDB, "db", defaultSessionDB, "Path to the session database")

	rootCmd.AddCommand(initCmd, generateCmd, validateCmd, serveCmd, sessionsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Tournament Configuration
# ========================
# This file defines the categories of a round-robin tournament day.

# Event metadata appears in the Excel export header.
event:
  name: "Spring Tournament"
  date: "2026-05-17"

# One block per age category. Each category gets its own sheet in the
# export. Defaults when omitted: 1 field, start at 09:00, and per-category
# match/break durations (U6/U8/U10: 10+5 minutes, U12: 12+5).
categories:
  - name: U10
    teams: 6              # Synthetic names Team 1..Team 6 are used
    fields: 2             # Matches running at the same time
    start_time: "09:00"

    # Lunch break: splits the day in two. split_ratio "half" puts half
    # the slots in the morning, "two_thirds" puts two thirds there.
    lunch_break: 60       # Minutes; omit or 0 for no break
    split_ratio: half

  - name: U12
    team_names: [Lions, Tigers, Bears, Eagles]
    fields: 1
    match_duration: 12
    break_duration: 5

    # Referee policy. Default: the refereeing team may also be playing
    # in the same slot if nobody else is free.
    dedicated_referees: true   # Referees never play in their own slot
    # no_referee: true         # Skip referee assignment entirely

    # Optional extras:
    # half_time_interval: 2    # Minutes added per match for half time
    # total_game_time: 40      # Warn when a team's total exceeds this
`

func runGenerate(configPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	results := make([]*engine.Result, 0, len(cfg.Categories))
	for _, req := range cfg.Requests() {
		result, err := engine.Generate(req)
		if err != nil {
			return fmt.Errorf("category %q: %w", req.Category, err)
		}
		results = append(results, result)
		printSchedule(result)
	}

	f, err := excel.Generate(results, cfg.Event.Name, cfg.Event.Date)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func printSchedule(result *engine.Result) {
	fmt.Printf("\n%s: %d matches in %d slots\n", result.Category, len(result.Matches), result.TotalSlots)

	resting := result.RestingPerSlot()
	currentSlot := -1
	for _, m := range result.Matches {
		if m.Slot != currentSlot {
			if result.MorningSlots > 0 && m.Slot == result.MorningSlots {
				fmt.Printf("  -- lunch break (%d min) --\n", result.LunchBreak)
			}
			currentSlot = m.Slot
		}
		line := fmt.Sprintf("  %2d. %s  Field %d  %s vs %s", m.Number, m.StartTime, m.Field, m.Team1, m.Team2)
		if m.Referee != "" {
			line += fmt.Sprintf("  (ref: %s)", m.Referee)
		}
		fmt.Println(line)
	}
	for slot := 0; slot < result.TotalSlots; slot++ {
		if names := resting[slot]; len(names) > 0 {
			fmt.Printf("  slot %d resting: %s\n", slot+1, strings.Join(names, ", "))
		}
	}

	fmt.Println("\n  Per Team:")
	fmt.Printf("  %-15s %6s %8s %8s\n", "Team", "Played", "Refereed", "MaxWait")
	for _, name := range result.TeamNames {
		s := result.Stats[name]
		fmt.Printf("  %-15s %6d %8d %8d\n", name, s.Played, s.Refereed, s.MaxWait)
	}

	for _, w := range result.Warnings {
		fmt.Printf("  ⚠ %s\n", w)
	}
	if result.TimeOverrun != "" {
		fmt.Printf("  ⚠ %s\n", result.TimeOverrun)
	}
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ [%s] %s\n", v.Category, v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ [%s] %s\n", v.Category, v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d errors, %d warnings\n", errors, warnings)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func runServe(dbPath string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	store, err := session.Open(dbPath, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer store.Close()

	addr := ":" + getEnv("PORT", "8080")
	logger.Info().Str("addr", addr).Str("db", dbPath).Msg("starting server")

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(store, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

func runSessions(dbPath string) error {
	store, err := session.Open(dbPath, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %s\n", "ID", "Saved", "Label")
	for _, s := range sessions {
		fmt.Printf("%-36s  %-20s  %s\n", s.ID, s.SavedAt.Format("2006-01-02 15:04:05"), s.Label)
	}
	return nil
}
