//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"log/slog"

	"futures-data/internal/app"
	"futures-data/internal/download"
	"futures-data/internal/model"
	"futures-data/internal/provider"
	"futures-data/internal/provider/tushare"

	"github.com/google/wire"
)

// App holds application dependencies built by Wire.
type App struct {
	Config      *app.Config
	Logger      *slog.Logger
	DP          provider.DataProvider
	Instruments []model.Instrument
	Campaign    *download.Campaign
}

// InitializeApp builds App via Wire.
// Caller must call the cleanup when done; it closes the store, the vendor client and the log file.
func InitializeApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideTushareClient,
		wire.Bind(new(provider.DataProvider), new(*tushare.Client)),
		wire.Bind(new(provider.BarFetcher), new(*tushare.Client)),
		app.ProvideStore,
		app.ProvideInstruments,
		app.ProvideDownloader,
		app.ProvideCheckpoint,
		app.ProvideCampaign,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
