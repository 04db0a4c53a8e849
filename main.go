package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	defaultStart, defaultEnd := lastQuarter(time.Now())
	startFlag := flag.String("start_date", defaultStart.Format("2006-01-02"),
		"Start Date of period to run script for, formatted as YYYY-MM-DD.")
	endFlag := flag.String("end_date", defaultEnd.Format("2006-01-02"),
		"End Date of period to run script for, formatted as YYYY-MM-DD.")
	flag.Parse()

	start, err := parseDate(*startFlag)
	if err != nil {
		exitWithError(fmt.Errorf("invalid --start_date: %w", err))
	}
	end, err := parseDate(*endFlag)
	if err != nil {
		exitWithError(fmt.Errorf("invalid --end_date: %w", err))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	ctx := context.Background()
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		exitWithError(err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		exitWithError(fmt.Errorf("create output dir: %w", err))
	}

	runID := uuid.New()
	logger.Info().
		Str("run_id", runID.String()).
		Str("start_date", start.Format("2006-01-02")).
		Str("end_date", end.Format("2006-01-02")).
		Msg("starting vendor performance update")

	run := &runContext{db: db, outputDir: cfg.OutputDir, log: logger}
	months := monthRanges(start, end)

	files := make([]string, 0, len(reportMetrics))
	for _, m := range reportMetrics {
		s, err := buildSpread(ctx, run, m, months)
		if err != nil {
			exitWithError(fmt.Errorf("%s: %w", m.name, err))
		}
		path := filepath.Join(cfg.OutputDir, m.outFile)
		if err := s.writeCSV(path); err != nil {
			exitWithError(fmt.Errorf("write %s: %w", m.outFile, err))
		}
		files = append(files, m.outFile)
		logger.Info().
			Str("metric", m.name).
			Str("file", m.outFile).
			Int("facilities", len(s.keys)).
			Int("months", len(months)).
			Msg("report written")
	}

	manifest := runManifest{
		RunID:       runID.String(),
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		Files:       files,
		GeneratedAt: time.Now().UTC(),
	}
	if err := writeManifest(cfg.OutputDir, manifest); err != nil {
		exitWithError(fmt.Errorf("write run manifest: %w", err))
	}

	zipPath, err := archiveOutput(cfg.OutputDir, time.Now())
	if err != nil {
		exitWithError(fmt.Errorf("archive output: %w", err))
	}
	logger.Info().Str("archive", zipPath).Msg("run complete")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
