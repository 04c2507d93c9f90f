package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/retrograde/internal/body"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// openSQLite opens dbPath with a single connection, matching SQLite's
// single-writer model.
func openSQLite(ctx context.Context, dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("dataset: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("dataset: set busy timeout: %w", err)
	}
	return db, nil
}

// WriteSQLite materializes tbl into the SQLite database at dbPath,
// replacing any previous retrograde_table.
func WriteSQLite(ctx context.Context, dbPath string, tbl *ephemeris.Table) (err error) {
	db, err := openSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dataset: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+tableName); err != nil {
		return fmt.Errorf("dataset: drop table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("dataset: create schema: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", body.Count+1), ", ")
	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, columnList(), placeholders))
	if err != nil {
		return fmt.Errorf("dataset: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range tbl.Entries() {
		if e.Timestamp > math.MaxInt64 {
			err = fmt.Errorf("dataset: entry %d: timestamp %d exceeds SQL INTEGER range", i, e.Timestamp)
			return err
		}
		if _, err = stmt.ExecContext(ctx, rowValues(e)...); err != nil {
			return fmt.Errorf("dataset: insert entry %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("dataset: commit: %w", err)
	}
	return nil
}

// ReadSQLite loads the table stored in the SQLite database at dbPath.
// Any nonzero body column counts as retrograde.
func ReadSQLite(ctx context.Context, dbPath string) (*ephemeris.Table, error) {
	db, err := openSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", columnList(), tableName, timestampColumn)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dataset: query %s: %w", tableName, err)
	}
	defer rows.Close()

	var entries []ephemeris.Entry
	for rows.Next() {
		var ts int64
		flags := make([]int64, body.Count)
		dest := make([]any, 0, body.Count+1)
		dest = append(dest, &ts)
		for i := range flags {
			dest = append(dest, &flags[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("dataset: scan row: %w", err)
		}
		if ts < 0 {
			return nil, fmt.Errorf("dataset: negative timestamp %d", ts)
		}

		var m body.Mask
		for i, v := range flags {
			if v != 0 {
				m |= body.Body(i).Bit()
			}
		}
		entries = append(entries, ephemeris.Entry{Timestamp: uint64(ts), Flags: m})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: iterate rows: %w", err)
	}

	tbl, err := ephemeris.New(entries)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return tbl, nil
}
