package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"futures-data/internal/download"
	"futures-data/internal/model"
)

// RunFlow runs one campaign over instruments until it finishes or SIGINT/SIGTERM arrives.
// On a signal the campaign context is cancelled and RunFlow waits for the checkpoint flush.
func RunFlow(ctx context.Context, c *download.Campaign, instruments []model.Instrument) download.Summary {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return runUntilSignal(ctx, c, instruments, signals)
}

func runUntilSignal(ctx context.Context, c *download.Campaign, instruments []model.Instrument, signals <-chan os.Signal) download.Summary {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan download.Summary, 1)
	go func() {
		done <- c.Run(ctx, instruments)
	}()

	select {
	case sum := <-done:
		return sum
	case sig := <-signals:
		slog.Info("received signal, graceful shutdown", "sig", sig)
		cancel()
		return <-done
	}
}
