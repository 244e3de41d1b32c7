package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"futures-data/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS dbbardata (
	id            BIGSERIAL PRIMARY KEY,
	symbol        TEXT             NOT NULL,
	exchange      TEXT             NOT NULL,
	interval      TEXT             NOT NULL,
	datetime      BIGINT           NOT NULL,
	open_price    DOUBLE PRECISION NOT NULL,
	high_price    DOUBLE PRECISION NOT NULL,
	low_price     DOUBLE PRECISION NOT NULL,
	close_price   DOUBLE PRECISION NOT NULL,
	volume        DOUBLE PRECISION NOT NULL,
	open_interest DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS dbbardata_lookup ON dbbardata (symbol, exchange, interval, datetime);
`

var barColumns = []string{
	"symbol", "exchange", "interval", "datetime",
	"open_price", "high_price", "low_price", "close_price", "volume", "open_interest",
}

// PostgresStore keeps bars in PostgreSQL; batches are written with COPY.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and ensures the bar table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store: empty DSN")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Append copies the whole batch in one COPY round trip.
func (s *PostgresStore) Append(ctx context.Context, bars []model.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	rows := make([][]any, len(bars))
	for i, b := range bars {
		rows[i] = []any{b.Symbol, string(b.Venue), string(b.Interval), b.Timestamp,
			b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest}
	}
	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"dbbardata"}, barColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("postgres store: append: %w", err)
	}
	if int(n) != len(bars) {
		return fmt.Errorf("postgres store: append: copied %d of %d rows", n, len(bars))
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, key model.InstrumentKey, interval model.Interval, start, end time.Time) ([]model.Bar, error) {
	rows, err := s.pool.Query(ctx, `SELECT datetime, open_price, high_price, low_price, close_price, volume, open_interest
		FROM dbbardata
		WHERE symbol = $1 AND exchange = $2 AND interval = $3 AND datetime BETWEEN $4 AND $5
		ORDER BY datetime, id`,
		key.Symbol, string(key.Venue), string(interval), start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("postgres store: query %s: %w", key, err)
	}
	defer rows.Close()

	var out []model.Bar
	for rows.Next() {
		b := model.Bar{Symbol: key.Symbol, Venue: key.Venue, Interval: interval}
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.OpenInterest); err != nil {
			return nil, fmt.Errorf("postgres store: scan %s: %w", key, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Overview(ctx context.Context) ([]Overview, error) {
	rows, err := s.pool.Query(ctx, `SELECT symbol, exchange, interval, COUNT(*), MIN(datetime), MAX(datetime)
		FROM dbbardata
		GROUP BY symbol, exchange, interval`)
	if err != nil {
		return nil, fmt.Errorf("postgres store: overview: %w", err)
	}
	defer rows.Close()

	var out []Overview
	for rows.Next() {
		var (
			ov              Overview
			venue, interval string
			count           int64
			first, last     int64
		)
		if err := rows.Scan(&ov.Key.Symbol, &venue, &interval, &count, &first, &last); err != nil {
			return nil, fmt.Errorf("postgres store: overview scan: %w", err)
		}
		ov.Key.Venue = model.Venue(venue)
		ov.Interval = model.Interval(interval)
		ov.Count = int(count)
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
