package download

import (
	"log/slog"
	"time"
)

const DefaultProgressEvery = 5

type progress struct {
	total     int
	started   time.Time
	succeeded int
	failed    int
	skipped   int
	bars      int
}

func (p *progress) percent(position int) float64 {
	if p.total == 0 {
		return 100
	}
	return float64(position) * 100 / float64(p.total)
}

// report logs a progress line for the instrument at 1-based position.
func (p *progress) report(logger *slog.Logger, position int, now time.Time) {
	elapsed := now.Sub(p.started).Round(time.Second)
	logger.Info("progress",
		"position", position,
		"total", p.total,
		"percent", roundTenth(p.percent(position)),
		"elapsed", elapsed.String(),
		"succeeded", p.succeeded,
		"failed", p.failed,
		"skipped", p.skipped,
		"bars", p.bars)
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
