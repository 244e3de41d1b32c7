package main

import (
	"context"
	"log/slog"
	"os"

	"futures-data/internal/app"
	"futures-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	ctx := context.Background()
	a, cleanup, err := InitializeApp(ctx)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	cfg := a.Config
	slog.Info("using data provider", "provider", a.DP.GetName())
	slog.Info("campaign config",
		"instruments", len(a.Instruments),
		"store", cfg.StoreBackend,
		"state", cfg.StateFile,
		"log", cfg.LogFile,
		"request_delay", cfg.RequestDelay,
		"rate_limit_cooldown", cfg.RateLimitCooldown,
		"max_retries", cfg.MaxRetries)

	sum := app.RunFlow(ctx, a.Campaign, a.Instruments)
	if sum.Interrupted {
		slog.Warn("stopped before completion, rerun to resume", "state", cfg.StateFile)
	}
}
