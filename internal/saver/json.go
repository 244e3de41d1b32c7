package saver

import (
	"encoding/json"
	"os"

	"futures-data/internal/model"
)

// JSONCodec stores a packet as an indented JSON array.
type JSONCodec struct{}

func (JSONCodec) Extension() string { return "json" }

func (JSONCodec) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(bars)
}

func (JSONCodec) Load(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var bars []model.Bar
	if err := json.NewDecoder(f).Decode(&bars); err != nil {
		return nil, err
	}
	return bars, nil
}
