package download

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"futures-data/internal/model"
	"futures-data/internal/provider"
)

var rebar = model.Instrument{Name: "螺纹钢", Code: "RB", Venue: model.SHFE, ListingDate: model.Date(2009, 3, 27)}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fetchCall struct {
	Key        string
	Start, End time.Time
}

type fakeFetcher struct {
	calls []fetchCall
	fn    func(n int, inst model.Instrument, start, end time.Time) ([]provider.Row, error)
}

func (f *fakeFetcher) FetchBars(ctx context.Context, inst model.Instrument, start, end time.Time) ([]provider.Row, error) {
	f.calls = append(f.calls, fetchCall{Key: inst.Key().String(), Start: start, End: end})
	if f.fn == nil {
		return nil, nil
	}
	return f.fn(len(f.calls), inst, start, end)
}

func (f *fakeFetcher) callsFor(key string) int {
	n := 0
	for _, c := range f.calls {
		if c.Key == key {
			n++
		}
	}
	return n
}

type memStore struct {
	batches [][]model.Bar
	err     error
}

func (m *memStore) Append(ctx context.Context, bars []model.Bar) error {
	if m.err != nil {
		return m.err
	}
	batch := make([]model.Bar, len(bars))
	copy(batch, bars)
	m.batches = append(m.batches, batch)
	return nil
}

func (m *memStore) Query(ctx context.Context, key model.InstrumentKey, interval model.Interval, start, end time.Time) ([]model.Bar, error) {
	var out []model.Bar
	for _, batch := range m.batches {
		for _, b := range batch {
			t := b.Time()
			if b.Key() == key && b.Interval == interval && !t.Before(start) && !t.After(end) {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) total() int {
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

// sleepRecorder stands in for Sleep without waiting.
type sleepRecorder struct {
	waits []time.Duration
	// cancel is invoked on the nth wait (1-based) when set.
	cancelAt int
	cancel   context.CancelFunc
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	if s.cancel != nil && len(s.waits) == s.cancelAt {
		s.cancel()
	}
	return ctx.Err()
}

func (s *sleepRecorder) count(d time.Duration) int {
	n := 0
	for _, w := range s.waits {
		if w == d {
			n++
		}
	}
	return n
}

func dailyRows(start time.Time, n int) []provider.Row {
	rows := make([]provider.Row, n)
	for i := range rows {
		rows[i] = provider.Row{
			Date: start.AddDate(0, 0, i),
			Open: 3850.0, High: 3910.0, Low: 3840.0, Close: 3900.0, Volume: 900.0, OpenInterest: 5000.0,
		}
	}
	return rows
}

var errBoom = errors.New("connection reset by peer while reading response body from upstream")

func testOptions() Options {
	return Options{
		Interval:          model.IntervalDaily,
		RequestDelay:      DefaultRequestDelay,
		RateLimitCooldown: DefaultRateLimitCooldown,
		MaxRetries:        DefaultMaxRetries,
	}
}

func newTestDownloader(f provider.BarFetcher, st *memStore, sl *sleepRecorder) *Downloader {
	d := NewDownloader(f, st, testOptions(), quietLogger)
	d.SetSleep(sl.Sleep)
	return d
}
