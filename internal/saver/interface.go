package saver

import (
	"strings"

	"futures-data/internal/model"
)

// PacketCodec persists one packet (chunk) of bars to a file and reads it back.
// The file store depends only on this interface; main picks the format.
type PacketCodec interface {
	Save(bars []model.Bar, path string) error
	Load(path string) ([]model.Bar, error)
	Extension() string
}

// NewPacketCodec creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewPacketCodec(format string) PacketCodec {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVCodec{}
	case "parquet":
		return ParquetCodec{}
	case "json":
		return JSONCodec{}
	default:
		return nil
	}
}
