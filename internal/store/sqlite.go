package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"futures-data/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS dbbardata (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol        TEXT    NOT NULL,
	exchange      TEXT    NOT NULL,
	interval      TEXT    NOT NULL,
	datetime      INTEGER NOT NULL, -- unix ms
	open_price    REAL    NOT NULL,
	high_price    REAL    NOT NULL,
	low_price     REAL    NOT NULL,
	close_price   REAL    NOT NULL,
	volume        REAL    NOT NULL,
	open_interest REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS dbbardata_lookup ON dbbardata (symbol, exchange, interval, datetime);
`

// SQLiteStore keeps bars in a single-file SQLite database (pure Go driver).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	// One connection: writes are sequential and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: ping %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts bars inside one transaction.
func (s *SQLiteStore) Append(ctx context.Context, bars []model.Bar) (err error) {
	if len(bars) == 0 {
		return nil
	}
	defer func() {
		if err != nil {
			err = fmt.Errorf("sqlite store: append: %w", err)
		}
	}()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dbbardata
		(symbol, exchange, interval, datetime, open_price, high_price, low_price, close_price, volume, open_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, b := range bars {
		if _, err = stmt.ExecContext(ctx, b.Symbol, string(b.Venue), string(b.Interval), b.Timestamp,
			b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Query(ctx context.Context, key model.InstrumentKey, interval model.Interval, start, end time.Time) ([]model.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT datetime, open_price, high_price, low_price, close_price, volume, open_interest
		FROM dbbardata
		WHERE symbol = ? AND exchange = ? AND interval = ? AND datetime BETWEEN ? AND ?
		ORDER BY datetime, id`,
		key.Symbol, string(key.Venue), string(interval), start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("sqlite store: query %s: %w", key, err)
	}
	defer rows.Close()

	var out []model.Bar
	for rows.Next() {
		b := model.Bar{Symbol: key.Symbol, Venue: key.Venue, Interval: interval}
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.OpenInterest); err != nil {
			return nil, fmt.Errorf("sqlite store: scan %s: %w", key, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Overview(ctx context.Context) ([]Overview, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, exchange, interval, COUNT(*), MIN(datetime), MAX(datetime)
		FROM dbbardata
		GROUP BY symbol, exchange, interval`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: overview: %w", err)
	}
	defer rows.Close()

	var out []Overview
	for rows.Next() {
		var (
			ov              Overview
			venue, interval string
			first, last     int64
		)
		if err := rows.Scan(&ov.Key.Symbol, &venue, &interval, &ov.Count, &first, &last); err != nil {
			return nil, fmt.Errorf("sqlite store: overview scan: %w", err)
		}
		ov.Key.Venue = model.Venue(venue)
		ov.Interval = model.Interval(interval)
		ov.First = time.UnixMilli(first).UTC()
		ov.Last = time.UnixMilli(last).UTC()
		out = append(out, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortOverview(out)
	return out, nil
}
