package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/shell"
)

var (
	GitVersion string
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

// The query shell. With no positional arguments it is interactive;
// otherwise the arguments are run as one command, e.g.
//
//	yahtzee-ev --table statemap.json -- round 14 -bins 20
func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.Debug)
	if GitVersion != "" {
		log.Info().Str("version", GitVersion).Msg("yahtzee-ev")
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Debug().Msg("got quit signal...")
		close(done)
	}()

	line := strings.TrimSpace(shellquote.Join(cfg.Args...))
	sc := shell.NewShellController(cfg)
	if cfg.TablePath != "" {
		if err := sc.LoadTable(cfg.TablePath); err != nil {
			log.Error().Err(err).Str("table", cfg.TablePath).Msg("could-not-load-table")
		}
	}
	if line == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, line)
		sc.Cleanup()
		sig <- syscall.SIGINT
	}

	<-done
}
