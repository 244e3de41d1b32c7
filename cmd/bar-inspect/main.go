package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"futures-data/internal/app"
	"futures-data/internal/inspect"
	"futures-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel))

	expected, err := app.LoadInstruments(cfg)
	if err != nil {
		slog.Error("failed to get instruments", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := app.CreateStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	r, err := inspect.Inspect(ctx, st, expected, inspect.Options{
		Start:    cfg.InspectStart,
		End:      cfg.InspectEnd.Add(24*time.Hour - time.Millisecond),
		Interval: cfg.InspectInterval,
	})
	if err != nil {
		slog.Error("inspection failed", "error", err)
		os.Exit(1)
	}
	r.Print(os.Stdout)
}
