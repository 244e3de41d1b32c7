package store

import (
	"context"
	"time"

	"futures-data/internal/model"
)

// BarStore is the local time-series store the downloader persists into.
type BarStore interface {
	// Append persists bars as one batch. No deduplication is applied.
	Append(ctx context.Context, bars []model.Bar) error
	// Query returns bars for key and interval with timestamps in [start, end], ascending.
	Query(ctx context.Context, key model.InstrumentKey, interval model.Interval, start, end time.Time) ([]model.Bar, error)
	Close() error
}

// Overview summarizes what the store holds for one instrument and interval.
type Overview struct {
	Key      model.InstrumentKey
	Interval model.Interval
	Count    int
	First    time.Time
	Last     time.Time
}

// Overviewer is implemented by stores that can list their content.
type Overviewer interface {
	Overview(ctx context.Context) ([]Overview, error)
}
