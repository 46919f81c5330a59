package shell

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/export"
	"github.com/domino14/yahtzee-ev/scorecard"
	"github.com/domino14/yahtzee-ev/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"load -format sqlite /path/to/states.db",
			&shellcmd{"load", []string{"/path/to/states.db"}, map[string]string{"format": "sqlite"}},
			nil},
		{"ev empty",
			&shellcmd{"ev", []string{"empty"}, map[string]string{}},
			nil},
		{`ev "ones, twos" 5 -bins 10 `,
			&shellcmd{"ev",
				[]string{"ones, twos", "5"},
				map[string]string{"bins": "10"}},
			nil,
		},
		{"round 3 -bins",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestParseScorecard(t *testing.T) {
	is := is.New(t)
	s, err := parseScorecard("empty")
	is.NoErr(err)
	is.Equal(s, scorecard.Empty)

	s, err = parseScorecard("FULL")
	is.NoErr(err)
	is.Equal(s, scorecard.Full)

	s, err = parseScorecard("100000000000001")
	is.NoErr(err)
	is.Equal(s, scorecard.New(scorecard.Ones, scorecard.Yahtzee))

	s, err = parseScorecard("ones,full house,Chance")
	is.NoErr(err)
	is.Equal(s, scorecard.New(scorecard.Ones, scorecard.FullHouse, scorecard.Chance))

	_, err = parseScorecard("ones,bogus")
	is.True(err != nil)
}

func loadedController(t *testing.T) *ShellController {
	is := is.New(t)
	tbl := testhelpers.LastRoundTable(t)
	path := filepath.Join(t.TempDir(), "statemap.json")
	is.NoErr(export.Save(context.Background(), tbl, path, config.FormatJSON))

	sc := newController(testhelpers.DefaultConfig)
	resp, err := sc.handle("load " + path)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "loaded 192 of 2,097,152 states"))
	return sc
}

func TestNeedsTable(t *testing.T) {
	is := is.New(t)
	sc := newController(testhelpers.DefaultConfig)
	_, err := sc.handle("ev empty")
	is.Equal(err, errNoTable)
	_, err = sc.handle("round 14")
	is.Equal(err, errNoTable)
	_, err = sc.handle("reload")
	is.Equal(err, errNoTable)
}

func TestLoadTableBeforeCommand(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "statemap.json")
	// sqlite contents behind the default json name
	is.NoErr(export.Save(context.Background(), testhelpers.LastRoundTable(t), path, config.FormatSQLite))

	sc := newController(testhelpers.DefaultConfig)
	is.NoErr(sc.LoadTable(path))
	is.Equal(sc.tablePath, path)

	resp, err := sc.handle("ev 111111111111101 12")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "23.333333"))
	resp, err = sc.handle("round 14")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "128 states with 14 marked"))

	is.True(sc.LoadTable(filepath.Join(t.TempDir(), "missing.json")) != nil)
	is.Equal(sc.tablePath, path)
}

func TestEV(t *testing.T) {
	is := is.New(t)
	sc := loadedController(t)

	resp, err := sc.handle("ev 111111111111101 12")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "open: Chance"))
	is.True(strings.Contains(resp.message, "23.333333"))

	_, err = sc.handle("ev empty")
	is.True(err != nil) // never computed in this table

	_, err = sc.handle("ev full 64")
	is.True(err != nil)

	resp, err = sc.handle("ev full")
	is.NoErr(err)
	is.True(strings.HasSuffix(resp.message, "0.000000"))
}

func TestRound(t *testing.T) {
	is := is.New(t)
	sc := loadedController(t)

	resp, err := sc.handle("round 14 -bins 4")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "128 states with 14 marked"))

	_, err = sc.handle("round 3")
	is.True(err != nil)
	_, err = sc.handle("round 16")
	is.True(err != nil)
	_, err = sc.handle("round 14 -bins 0")
	is.True(err != nil)
}

func TestReloadUsesCache(t *testing.T) {
	is := is.New(t)
	sc := loadedController(t)
	first := sc.table
	_, err := sc.handle("load " + sc.tablePath)
	is.NoErr(err)
	is.True(sc.table == first)

	_, err = sc.handle("reload")
	is.NoErr(err)
	is.True(sc.table != first)
	is.Equal(sc.table.Checksum(), first.Checksum())
}

func TestScoreAndSample(t *testing.T) {
	is := is.New(t)
	sc := newController(testhelpers.DefaultConfig)

	resp, err := sc.handle("score fullhouse 22333")
	is.NoErr(err)
	is.Equal(resp.message, "[2 2 3 3 3] scores 13 as Full House")

	_, err = sc.handle("score chance 123")
	is.True(err != nil)
	_, err = sc.handle("score nothing 12345")
	is.True(err != nil)

	resp, err = sc.handle("sample -n 1")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "1 in 6.0"))

	_, err = sc.handle("sample -n 6")
	is.True(err != nil)
}

func TestHelpAndUnknown(t *testing.T) {
	is := is.New(t)
	sc := newController(testhelpers.DefaultConfig)
	resp, err := sc.handle("help")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "commands:"))

	resp, err = sc.handle("help ev")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "upper-section total"))

	_, err = sc.handle("bogus")
	is.True(err != nil)
}
