package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/yahtzee-ev/dice"
	"github.com/domino14/yahtzee-ev/probability"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/scoring"
)

const (
	defaultBins      = 15
	histogramWidth   = 40
	defaultSampleLen = dice.MaxDice
)

func intOption(options map[string]string, key string, def int) (int, error) {
	v, ok := options[key]
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return i, nil
}

// parseScorecard accepts "empty", "full", a 15-character 0/1 string, or a
// comma-separated list of marked category names.
func parseScorecard(s string) (scorecard.Scorecard, error) {
	switch strings.ToLower(s) {
	case "empty", "none":
		return scorecard.Empty, nil
	case "full", "all":
		return scorecard.Full, nil
	}
	if len(s) == scorecard.NumCategories && strings.Trim(s, "01") == "" {
		return scorecard.Parse(s)
	}
	var marked []scorecard.Category
	for _, name := range strings.Split(s, ",") {
		c, err := scorecard.ParseCategory(name)
		if err != nil {
			return 0, err
		}
		marked = append(marked, c)
	}
	return scorecard.New(marked...), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <path/to/statemap.json|states.db>")
	}
	t, err := sc.tables.Get(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.table = t
	sc.tablePath = cmd.args[0]
	return msg(sc.printer.Sprintf("loaded %d of %d states from %s (checksum %016x)",
		t.Written(), t.Len(), sc.tablePath, t.Checksum())), nil
}

func (sc *ShellController) reload(cmd *shellcmd) (*Response, error) {
	path := sc.tablePath
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	if path == "" {
		return nil, errNoTable
	}
	sc.tables.Evict(path)
	return sc.load(&shellcmd{cmd: "load", args: []string{path}})
}

func (sc *ShellController) ev(cmd *shellcmd) (*Response, error) {
	if sc.table == nil {
		return nil, errNoTable
	}
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, errors.New("usage: ev <scorecard> [bucket]")
	}
	s, err := parseScorecard(cmd.args[0])
	if err != nil {
		return nil, err
	}
	bucket := 0
	if len(cmd.args) == 2 {
		if bucket, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	}
	v, err := sc.table.Get(s, bucket)
	if err != nil {
		return nil, err
	}
	open := lo.Map(s.Unmarked(), func(c scorecard.Category, _ int) string {
		return c.String()
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "scorecard %s, upper bucket %d\n", s, bucket)
	if len(open) > 0 {
		fmt.Fprintf(&sb, "open: %s\n", strings.Join(open, ", "))
	}
	fmt.Fprintf(&sb, "expected remaining score: %.6f", v)
	return msg(sb.String()), nil
}

func (sc *ShellController) round(cmd *shellcmd) (*Response, error) {
	if sc.table == nil {
		return nil, errNoTable
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: round <marked-count> [-bins n]")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > scorecard.NumCategories {
		return nil, fmt.Errorf("marked count must be between 0 and %d", scorecard.NumCategories)
	}
	bins, err := intOption(cmd.options, "bins", defaultBins)
	if err != nil {
		return nil, err
	}
	if bins < 1 {
		return nil, errors.New("bins must be positive")
	}
	vals := sc.table.RoundValues(n)
	if len(vals) == 0 {
		return nil, fmt.Errorf("no states with %d marked categories in this table", n)
	}
	count, mean, stdev := sc.table.RoundSummary(n)

	var sb strings.Builder
	sb.WriteString(sc.printer.Sprintf("%d states with %d marked: mean %.3f, stdev %.3f\n",
		count, n, mean, stdev))
	h := histogram.Hist(bins, vals)
	if err := histogram.Fprint(&sb, h, histogram.Linear(histogramWidth)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) score(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: score <category> <dice>, e.g. score fullhouse 22333")
	}
	c, err := scorecard.ParseCategory(cmd.args[0])
	if err != nil {
		return nil, err
	}
	d, err := dice.Parse(cmd.args[1])
	if err != nil {
		return nil, err
	}
	if d.Size() != dice.MaxDice {
		return nil, fmt.Errorf("need %d dice, got %d", dice.MaxDice, d.Size())
	}
	return msg(fmt.Sprintf("%s scores %d as %s", d, scoring.Score(c, d), c)), nil
}

func (sc *ShellController) sample(cmd *shellcmd) (*Response, error) {
	n, err := intOption(cmd.options, "n", defaultSampleLen)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > dice.MaxDice {
		return nil, fmt.Errorf("can roll between 1 and %d dice", dice.MaxDice)
	}
	d := dice.Roll(n)
	p := probability.Multinomial(d)
	return msg(fmt.Sprintf("rolled %s (p = %.6f, 1 in %.1f)", d, p, 1/p)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	if len(cmd.args) == 0 {
		usage(&sb)
	} else {
		usageTopic(&sb, cmd.args[0])
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
