package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"futures-data/internal/instrument"
	"futures-data/internal/model"
	"futures-data/internal/provider"
	"futures-data/internal/provider/tushare"
	"futures-data/internal/store"
)

// CreateProvider creates DataProvider from config (currently Tushare only)
func CreateProvider(cfg *Config) (provider.DataProvider, error) {
	switch strings.ToLower(cfg.DataProvider) {
	case "tushare":
		return createTushareClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported data provider: %s. Options: tushare", cfg.DataProvider)
	}
}

func createTushareClient(cfg *Config) (*tushare.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	return tushare.NewClient(cfg.TushareToken, cfg.TushareURL)
}

// CreateStore opens the configured bar store and logs where bars go.
func CreateStore(ctx context.Context, cfg *Config) (store.BarStore, error) {
	if cfg.StoreBackend == store.BackendPostgres && cfg.StoreDSN == "" {
		return nil, fmt.Errorf("STORE_DSN required for STORE_BACKEND=postgres")
	}
	st, err := store.Open(ctx, cfg.StoreBackend, cfg.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	slog.Info("wire", "store", cfg.StoreBackend, "dsn", redactDSN(cfg.StoreBackend, cfg.StoreDSN))
	return st, nil
}

// LoadInstruments returns the instruments file entries, or the built-in catalog.
func LoadInstruments(cfg *Config) ([]model.Instrument, error) {
	list, err := instrument.LoadFileOrCatalog(cfg.InstrumentsFile)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("load instruments: empty list")
	}
	return list, nil
}

// redactDSN hides the password of a postgres URL-style DSN.
func redactDSN(backend, dsn string) string {
	if backend != store.BackendPostgres {
		return dsn
	}
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || scheme > at {
		return "postgres"
	}
	cred := dsn[scheme+3 : at]
	if i := strings.Index(cred, ":"); i >= 0 {
		cred = cred[:i] + ":***"
	}
	return dsn[:scheme+3] + cred + dsn[at:]
}
