// Package export saves and loads finished state tables.
//
// Two formats are supported. The JSON form is one object keyed by the
// 15-character scorecard string, each mapping the upper bucket (as a
// string) to the EV:
//
//	{"000000000000000": {"0": 256.41, "1": 256.4, ...}, ...}
//
// The SQLite form stores one row per state in a states table plus the
// table checksum in meta, which is verified on load.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/domino14/yahtzee-ev/config"
	"github.com/domino14/yahtzee-ev/evtable"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	ErrChecksum      = errors.New("checksum mismatch")
)

// FormatFor picks a format from a file name, defaulting to JSON.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.FormatSQLite
	}
	return config.FormatJSON
}

// Save writes t to path in the given format.
func Save(ctx context.Context, t *evtable.Table, path, format string) error {
	switch format {
	case config.FormatJSON:
		return WriteJSONFile(t, path)
	case config.FormatSQLite:
		return WriteSQLite(ctx, t, path)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

var sqliteHeader = []byte("SQLite format 3\x00")

// Load reads a table saved with Save. The format is taken from the file
// contents, not its name, so a SQLite table written to statemap.json
// still loads.
func Load(ctx context.Context, path string) (*evtable.Table, error) {
	isSQLite, err := hasSQLiteHeader(path)
	if err != nil {
		return nil, err
	}
	if isSQLite {
		return ReadSQLite(ctx, path)
	}
	return ReadJSONFile(path)
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, sqliteHeader), nil
}
