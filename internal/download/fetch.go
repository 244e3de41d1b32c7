package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"futures-data/internal/model"
	"futures-data/internal/provider"
	"futures-data/internal/store"
)

const (
	// DefaultRequestDelay is the pause after every chunk attempt.
	DefaultRequestDelay = 5 * time.Second
	// DefaultRateLimitCooldown is the wait before retrying a rate-limited chunk.
	DefaultRateLimitCooldown = 65 * time.Second
	// DefaultMaxRetries bounds rate-limit retries per chunk.
	DefaultMaxRetries = 3

	maxErrorRunes = 50
)

// ChunkState classifies the outcome of one chunk.
type ChunkState int

const (
	ChunkStored      ChunkState = iota // bars appended to the store
	ChunkEmpty                         // vendor returned no rows
	ChunkAllInvalid                    // every row was skipped by normalization
	ChunkRateLimited                   // retry budget exhausted
	ChunkFailed                        // fetch or store error
	ChunkInterrupted                   // context cancelled
)

func (s ChunkState) String() string {
	switch s {
	case ChunkStored:
		return "stored"
	case ChunkEmpty:
		return "empty"
	case ChunkAllInvalid:
		return "all-invalid"
	case ChunkRateLimited:
		return "rate-limited"
	case ChunkFailed:
		return "failed"
	case ChunkInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ChunkResult is the value FetchAndStore reports instead of an error.
type ChunkResult struct {
	Chunk     DateRange
	State     ChunkState
	Persisted int
	Skipped   int
	Attempts  int
	Status    string
	Err       error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d, returning ctx.Err() early if ctx is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options tunes per-chunk behaviour.
type Options struct {
	Interval          model.Interval
	RequestDelay      time.Duration
	RateLimitCooldown time.Duration
	MaxRetries        int
}

// DefaultOptions returns daily bars with the vendor pacing defaults.
func DefaultOptions() Options {
	return Options{
		Interval:          model.IntervalDaily,
		RequestDelay:      DefaultRequestDelay,
		RateLimitCooldown: DefaultRateLimitCooldown,
		MaxRetries:        DefaultMaxRetries,
	}
}

// Downloader fetches one chunk at a time through a vendor and appends it to a store.
type Downloader struct {
	fetcher provider.BarFetcher
	store   store.BarStore
	opts    Options
	logger  *slog.Logger
	sleep   SleepFunc
}

// NewDownloader builds a Downloader. A nil logger selects slog.Default().
func NewDownloader(fetcher provider.BarFetcher, st store.BarStore, opts Options, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Interval == "" {
		opts.Interval = model.IntervalDaily
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Downloader{fetcher: fetcher, store: st, opts: opts, logger: logger, sleep: Sleep}
}

// SetSleep replaces the wait used for pacing and cooldowns.
func (d *Downloader) SetSleep(fn SleepFunc) {
	if fn != nil {
		d.sleep = fn
	}
}

// FetchAndStore downloads chunk for inst, normalizes it and appends it as one batch.
// Failures are reported in the result; the request delay is applied afterwards whatever
// the outcome.
func (d *Downloader) FetchAndStore(ctx context.Context, inst model.Instrument, chunk DateRange) ChunkResult {
	res := d.fetchAndStore(ctx, inst, chunk)
	if res.State != ChunkInterrupted {
		_ = d.sleep(ctx, d.opts.RequestDelay)
	}
	return res
}

func (d *Downloader) fetchAndStore(ctx context.Context, inst model.Instrument, chunk DateRange) ChunkResult {
	res := ChunkResult{Chunk: chunk}
	var rows []provider.Row
	for attempt := 1; ; attempt++ {
		res.Attempts = attempt
		var err error
		rows, err = d.fetcher.FetchBars(ctx, inst, chunk.Start, chunk.End)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return interrupted(res, ctx.Err())
		}
		if !provider.IsRateLimit(err) {
			res.State, res.Err = ChunkFailed, err
			res.Status = "error: " + truncate(err.Error(), maxErrorRunes)
			return res
		}
		if attempt > d.opts.MaxRetries {
			res.State, res.Err = ChunkRateLimited, err
			res.Status = fmt.Sprintf("rate limited (retried %d times)", d.opts.MaxRetries)
			return res
		}
		d.logger.Warn("rate limited, cooling down before retry",
			"instrument", inst.Key().String(), "chunk", chunk.String(),
			"attempt", attempt, "cooldown", d.opts.RateLimitCooldown)
		if err := d.sleep(ctx, d.opts.RateLimitCooldown); err != nil {
			return interrupted(res, err)
		}
	}

	if len(rows) == 0 {
		res.State, res.Status = ChunkEmpty, "no data"
		return res
	}
	bars, skipped := Normalize(inst, d.opts.Interval, rows)
	res.Skipped = skipped
	if len(bars) == 0 {
		res.State = ChunkAllInvalid
		res.Status = fmt.Sprintf("all rows invalid (skipped %d)", skipped)
		return res
	}
	if err := d.store.Append(ctx, bars); err != nil {
		if ctx.Err() != nil {
			return interrupted(res, ctx.Err())
		}
		res.State, res.Err = ChunkFailed, err
		res.Status = "store error: " + truncate(err.Error(), maxErrorRunes)
		return res
	}
	res.State, res.Persisted = ChunkStored, len(bars)
	res.Status = fmt.Sprintf("stored %d bars", len(bars))
	if skipped > 0 {
		res.Status += fmt.Sprintf(" (skipped %d)", skipped)
	}
	return res
}

func interrupted(res ChunkResult, err error) ChunkResult {
	res.State, res.Err, res.Status = ChunkInterrupted, err, "interrupted"
	return res
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
