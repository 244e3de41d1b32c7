package store

import (
	"context"
	"fmt"
	"strings"

	"futures-data/internal/saver"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Open creates the store for backend. dsn is a file path for sqlite, a connection
// string for postgres and the base directory for the file formats (csv, json, parquet).
func Open(ctx context.Context, backend, dsn string) (BarStore, error) {
	switch b := strings.ToLower(strings.TrimSpace(backend)); b {
	case BackendSQLite:
		return OpenSQLite(ctx, dsn)
	case BackendPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		codec := saver.NewPacketCodec(b)
		if codec == nil {
			return nil, fmt.Errorf("unsupported store backend %q (use: sqlite, postgres, parquet, csv, json)", backend)
		}
		return NewFileStore(dsn, codec)
	}
}
