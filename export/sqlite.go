package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
)

const schema = `
CREATE TABLE states (
	scorecard TEXT NOT NULL,
	bucket INTEGER NOT NULL,
	ev REAL NOT NULL,
	PRIMARY KEY (scorecard, bucket)
);
CREATE TABLE meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const checksumKey = "checksum"

func openDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}

// WriteSQLite writes t to a fresh SQLite database at path, replacing any
// file already there.
func WriteSQLite(ctx context.Context, t *evtable.Table, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	err = retry.Do(
		func() error {
			return writeStates(ctx, db, t)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("sqlite-busy-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("states", t.Written()).Msg("wrote-sqlite")
	return nil
}

func writeStates(ctx context.Context, db *sql.DB, t *evtable.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO states (scorecard, bucket, ev) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, ev := range t.All() {
		if _, err := stmt.ExecContext(ctx, k.Scorecard.String(), k.Bucket, ev); err != nil {
			return fmt.Errorf("insert %s: %w", k, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
		checksumKey, strconv.FormatUint(t.Checksum(), 16)); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadSQLite loads a table written by WriteSQLite and checks it against the
// stored checksum.
func ReadSQLite(ctx context.Context, path string) (*evtable.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var want string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, checksumKey).Scan(&want)
	if err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT scorecard, bucket, ev FROM states`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := evtable.New()
	for rows.Next() {
		var (
			cs     string
			bucket int
			ev     float64
		)
		if err := rows.Scan(&cs, &bucket, &ev); err != nil {
			return nil, err
		}
		s, err := scorecard.Parse(cs)
		if err != nil {
			return nil, err
		}
		if err := t.Set(s, bucket, ev); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if got := strconv.FormatUint(t.Checksum(), 16); got != want {
		return nil, fmt.Errorf("%w: stored %s, loaded %s", ErrChecksum, want, got)
	}
	log.Debug().Str("path", path).Int("states", t.Written()).Msg("read-sqlite")
	return t, nil
}
