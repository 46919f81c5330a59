package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/evaluator"
	"github.com/domino14/yahtzee-ev/export"
	"github.com/domino14/yahtzee-ev/generator"
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.Debug)
	log.Info().Int("threads", cfg.Threads).
		Str("output", cfg.OutputPath).
		Str("format", cfg.OutputFormat).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tstart := time.Now()
	ectx := evaluator.NewContext()
	gen := generator.NewGenerator(cfg, ectx)
	table, err := gen.Generate(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("generation-failed")
	}

	if err := export.Save(ctx, table, cfg.OutputPath, cfg.OutputFormat); err != nil {
		log.Fatal().Err(err).Msg("export-failed")
	}
	report := gen.Report()
	if cfg.ReportPath != "" {
		if err := report.WriteFile(cfg.ReportPath); err != nil {
			log.Fatal().Err(err).Msg("report-failed")
		}
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stdout, "Computed %d states in %v using %d threads.\n",
		table.Written(), time.Since(tstart).Round(time.Millisecond), gen.Threads())
	p.Fprintf(os.Stdout, "Expected score of a new game: %.6f\n", report.InitialEV)
	p.Fprintf(os.Stdout, "Wrote %s (%s), checksum %s.\n", cfg.OutputPath, cfg.OutputFormat, report.Checksum)
}
