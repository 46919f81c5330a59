package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"

	EnvPrefix = "YAHTZEE"
)

var ErrBadConfig = errors.New("bad config")

type Config struct {
	// Threads is the number of workers evaluating states within a round.
	Threads int
	// ProgressInterval is how often a progress line is logged while
	// generating. Zero turns it off.
	ProgressInterval time.Duration
	OutputPath       string
	OutputFormat     string
	// ReportPath, if set, receives a YAML summary of the run.
	ReportPath string
	// MemoryFraction caps the share of system memory the state table may use.
	MemoryFraction float64
	// TablePath, if set, is loaded by the shell before anything else runs.
	TablePath string
	Debug     bool
	// Args holds the positional arguments left after flag parsing.
	Args []string
}

func DefaultConfig() *Config {
	return &Config{
		Threads:          max(1, runtime.NumCPU()),
		ProgressInterval: 3 * time.Second,
		OutputPath:       "statemap.json",
		OutputFormat:     FormatJSON,
		MemoryFraction:   0.5,
	}
}

// Load fills the config from, in increasing priority: defaults, an optional
// config file (--config), YAHTZEE_* environment variables, then flags.
func (c *Config) Load(args []string) error {
	def := DefaultConfig()
	fs := pflag.NewFlagSet("yahtzee-ev", pflag.ContinueOnError)
	fs.String("config", "", "optional config file (yaml, toml or json)")
	fs.Int("threads", def.Threads, "number of worker threads")
	fs.Duration("progress-interval", def.ProgressInterval, "how often to log progress; 0 disables")
	fs.String("output", def.OutputPath, "where to write the state table")
	fs.String("format", def.OutputFormat, "output format: json or sqlite")
	fs.String("report", "", "optional path for a YAML run report")
	fs.Float64("memory-fraction", def.MemoryFraction, "max fraction of system memory for the state table")
	fs.String("table", "", "state table for the shell to load at startup")
	fs.Bool("debug", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	c.Threads = v.GetInt("threads")
	c.ProgressInterval = v.GetDuration("progress-interval")
	c.OutputPath = v.GetString("output")
	c.OutputFormat = strings.ToLower(v.GetString("format"))
	c.ReportPath = v.GetString("report")
	c.MemoryFraction = v.GetFloat64("memory-fraction")
	c.TablePath = v.GetString("table")
	c.Debug = v.GetBool("debug")
	c.Args = fs.Args()
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrBadConfig, c.Threads)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("%w: negative progress interval", ErrBadConfig)
	}
	switch c.OutputFormat {
	case FormatJSON, FormatSQLite:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrBadConfig, c.OutputFormat)
	}
	if c.MemoryFraction <= 0 || c.MemoryFraction > 1 {
		return fmt.Errorf("%w: memory fraction must be in (0, 1], got %v", ErrBadConfig, c.MemoryFraction)
	}
	return nil
}
