package saver

import (
	"github.com/parquet-go/parquet-go"

	"futures-data/internal/model"
)

// ParquetCodec stores a packet as Parquet.
type ParquetCodec struct{}

func (ParquetCodec) Extension() string { return "parquet" }

func (ParquetCodec) Save(bars []model.Bar, path string) error {
	return parquet.WriteFile(path, bars)
}

func (ParquetCodec) Load(path string) ([]model.Bar, error) {
	return parquet.ReadFile[model.Bar](path)
}
