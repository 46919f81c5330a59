package generator

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RoundReport summarizes one round of a run.
type RoundReport struct {
	Round           int     `yaml:"round"`
	Units           int     `yaml:"units"`
	States          int     `yaml:"states"`
	ElapsedSeconds  float64 `yaml:"elapsed_seconds"`
	MeanUnitMicros  float64 `yaml:"mean_unit_usec"`
	StdevUnitMicros float64 `yaml:"stdev_unit_usec"`
	// StderrUnitMicros is the standard error of MeanUnitMicros.
	StderrUnitMicros float64 `yaml:"stderr_unit_usec"`
	MaxUnitMicros    float64 `yaml:"max_unit_usec"`
	MeanEV           float64 `yaml:"mean_ev"`
	StdevEV          float64 `yaml:"stdev_ev"`
}

type Report struct {
	Threads        int           `yaml:"threads"`
	TotalStates    int           `yaml:"total_states"`
	ElapsedSeconds float64       `yaml:"elapsed_seconds"`
	Checksum       string        `yaml:"checksum"`
	InitialEV      float64       `yaml:"initial_ev"`
	Rounds         []RoundReport `yaml:"rounds"`
}

func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadReport(r io.Reader) (*Report, error) {
	rep := &Report{}
	if err := yaml.NewDecoder(r).Decode(rep); err != nil {
		return nil, err
	}
	return rep, nil
}
