package app

import (
	"context"
	"log/slog"

	"futures-data/internal/download"
	"futures-data/internal/model"
	"futures-data/internal/provider"
	"futures-data/internal/provider/tushare"
	"futures-data/internal/slogx"
	"futures-data/internal/store"
)

// ProvideConfig loads config from environment and requires a vendor token (for Wire).
func ProvideConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger builds the stderr + progress-file logger and makes it the default (for Wire).
func ProvideLogger(cfg *Config) (*slog.Logger, func(), error) {
	logger, closer, err := slogx.NewTee(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, func() { closer.Close() }, nil
}

// ProvideTushareClient creates the vendor client (for Wire).
// The cleanup closes idle connections.
func ProvideTushareClient(cfg *Config) (*tushare.Client, func(), error) {
	c, err := createTushareClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { c.Close() }, nil
}

// ProvideStore opens the bar store (for Wire).
func ProvideStore(ctx context.Context, cfg *Config) (store.BarStore, func(), error) {
	st, err := CreateStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return st, func() {
		if err := st.Close(); err != nil {
			slog.Error("store close", "error", err)
		}
	}, nil
}

// ProvideInstruments loads the instrument list (for Wire).
func ProvideInstruments(cfg *Config) ([]model.Instrument, error) {
	return LoadInstruments(cfg)
}

// ProvideDownloader wires the per-chunk downloader (for Wire).
func ProvideDownloader(cfg *Config, fetcher provider.BarFetcher, st store.BarStore, logger *slog.Logger) *download.Downloader {
	return download.NewDownloader(fetcher, st, download.Options{
		Interval:          model.IntervalDaily,
		RequestDelay:      cfg.RequestDelay,
		RateLimitCooldown: cfg.RateLimitCooldown,
		MaxRetries:        cfg.MaxRetries,
	}, logger)
}

// ProvideCheckpoint returns the checkpoint at STATE_FILE (for Wire).
func ProvideCheckpoint(cfg *Config) *download.Checkpoint {
	return download.NewCheckpoint(cfg.StateFile)
}

// ProvideCampaign wires the campaign orchestrator (for Wire).
func ProvideCampaign(cfg *Config, dl *download.Downloader, cp *download.Checkpoint, logger *slog.Logger) *download.Campaign {
	return download.NewCampaign(dl, cp, download.CampaignConfig{
		End:             cfg.CampaignEnd,
		ChunkYears:      cfg.ChunkYears,
		ProgressEvery:   cfg.ProgressEvery,
		ArchiveOnFinish: cfg.ArchiveOnFinish,
		ReportDir:       cfg.ReportDir(),
	}, logger)
}
