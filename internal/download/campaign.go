package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"futures-data/internal/instrument"
	"futures-data/internal/model"
)

// DefaultChunkYears is the number of calendar years per request.
const DefaultChunkYears = 3

// CampaignConfig controls a Campaign.
type CampaignConfig struct {
	End             time.Time
	ChunkYears      int
	ProgressEvery   int
	ArchiveOnFinish bool
	// ReportDir receives the run reports. Empty disables them.
	ReportDir string
}

// Summary is the outcome of one Run.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	FailedKeys  []string
	Failures    []FailedInstrument
	TotalBars   int
	Elapsed     time.Duration
	Interrupted bool
}

// Campaign walks an instrument list, chunk by chunk, resuming from a checkpoint.
type Campaign struct {
	dl         *Downloader
	checkpoint *Checkpoint
	cfg        CampaignConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewCampaign wires a downloader and checkpoint. A nil logger selects slog.Default().
func NewCampaign(dl *Downloader, cp *Checkpoint, cfg CampaignConfig, logger *slog.Logger) *Campaign {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkYears < 1 {
		cfg.ChunkYears = DefaultChunkYears
	}
	if cfg.ProgressEvery < 1 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	if cfg.End.IsZero() {
		cfg.End = model.Date(2024, time.December, 31)
	}
	return &Campaign{dl: dl, checkpoint: cp, cfg: cfg, logger: logger, now: time.Now}
}

// Run downloads every instrument not yet in the checkpoint. It never returns an error:
// instrument failures are counted in the Summary, and cancellation of ctx stops the
// run after flushing the checkpoint.
func (c *Campaign) Run(ctx context.Context, instruments []model.Instrument) Summary {
	p := &progress{total: len(instruments), started: c.now()}
	sum := Summary{Total: len(instruments)}

	state, err := c.checkpoint.Load()
	if err != nil {
		c.logger.Warn("checkpoint unreadable, starting fresh", "path", c.checkpoint.Path(), "err", err)
	}
	c.logger.Info("campaign start",
		"instruments", len(instruments),
		"resumed", state.Len(),
		"earliest", instrument.Earliest(instruments).Format(model.DateLayout),
		"end", c.cfg.End.Format(model.DateLayout),
		"chunk_years", c.cfg.ChunkYears)

	var succeeded []string
	for i, inst := range instruments {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}
		key := inst.Key().String()
		if state.Has(key) {
			c.logger.Info("skip completed", "instrument", key)
			sum.Skipped++
			p.skipped++
			continue
		}

		c.logger.Info("instrument start", "instrument", key, "name", inst.Name,
			"position", i+1, "total", len(instruments))
		total, reason, stopped := c.runInstrument(ctx, inst)
		if stopped {
			c.logger.Warn("instrument interrupted, not marked complete", "instrument", key, "bars", total)
			sum.TotalBars += total
			sum.Interrupted = true
			break
		}

		sum.TotalBars += total
		p.bars += total
		if total > 0 {
			state.Add(key)
			succeeded = append(succeeded, key)
			if err := c.checkpoint.Save(state); err != nil {
				c.logger.Error("checkpoint save failed", "path", c.checkpoint.Path(), "err", err)
			}
			sum.Succeeded++
			p.succeeded++
			c.logger.Info("instrument done", "instrument", key, "bars", total)
		} else {
			sum.Failed++
			p.failed++
			sum.FailedKeys = append(sum.FailedKeys, key)
			sum.Failures = append(sum.Failures, FailedInstrument{Key: key, Reason: reason})
			c.logger.Error("instrument failed", "instrument", key, "reason", reason)
		}

		if (i+1)%c.cfg.ProgressEvery == 0 {
			p.report(c.logger, i+1, c.now())
		}
	}

	if sum.Interrupted {
		if err := c.checkpoint.Save(state); err != nil {
			c.logger.Error("checkpoint save failed", "path", c.checkpoint.Path(), "err", err)
		} else {
			c.logger.Warn("interrupted, checkpoint saved", "path", c.checkpoint.Path(), "completed", state.Len())
		}
	}

	sum.Elapsed = c.now().Sub(p.started)
	c.finish(instruments, state, succeeded, sum)
	return sum
}

// runInstrument fetches every chunk of [listing date, campaign end] and returns the bars
// persisted. stopped is true when ctx was cancelled before the instrument finished.
func (c *Campaign) runInstrument(ctx context.Context, inst model.Instrument) (total int, reason string, stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			total, reason, stopped = 0, fmt.Sprintf("panic: %v", r), false
		}
	}()

	start := model.Day(inst.ListingDate)
	if start.After(c.cfg.End) {
		return 0, "listing date after campaign end", false
	}
	chunks, err := SplitRange(start, c.cfg.End, c.cfg.ChunkYears)
	if err != nil {
		return 0, err.Error(), false
	}
	key := inst.Key().String()
	reason = "no data"
	for n, chunk := range chunks {
		res := c.dl.FetchAndStore(ctx, inst, chunk)
		total += res.Persisted
		level := slog.LevelInfo
		if res.State == ChunkFailed || res.State == ChunkRateLimited {
			level = slog.LevelWarn
			reason = res.Status
		} else if res.State == ChunkAllInvalid && reason == "no data" {
			reason = res.Status
		}
		c.logger.Log(ctx, level, "chunk",
			"instrument", key,
			"chunk", chunk.String(),
			"index", n+1,
			"chunks", len(chunks),
			"status", res.Status,
			"bars", res.Persisted)
		if res.State == ChunkInterrupted || ctx.Err() != nil {
			return total, "interrupted", true
		}
	}
	return total, reason, false
}

func (c *Campaign) finish(instruments []model.Instrument, state *State, succeeded []string, sum Summary) {
	if c.cfg.ReportDir != "" {
		if err := writeRunReport(c.cfg.ReportDir, succeeded, sum.Failures, c.logger); err != nil {
			c.logger.Error("report write failed", "dir", c.cfg.ReportDir, "err", err)
		}
	}
	if c.cfg.ArchiveOnFinish && !sum.Interrupted && allComplete(instruments, state) {
		if dst, err := c.checkpoint.Archive(c.now()); err != nil {
			c.logger.Error("checkpoint archive failed", "err", err)
		} else {
			c.logger.Info("checkpoint archived", "path", dst)
		}
	}

	attrs := []any{
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
		"bars", sum.TotalBars,
		"elapsed", sum.Elapsed.Round(time.Second).String(),
		"interrupted", sum.Interrupted,
	}
	if sum.Failed > 0 {
		attrs = append(attrs, "failed_list", joinFailedReasons(sum.Failures))
	}
	c.logger.Info("campaign done", attrs...)
}

func allComplete(instruments []model.Instrument, state *State) bool {
	if len(instruments) == 0 {
		return false
	}
	for _, inst := range instruments {
		if !state.Has(inst.Key().String()) {
			return false
		}
	}
	return true
}
