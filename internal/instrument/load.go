package instrument

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"futures-data/internal/model"
)

// DefaultListingDate is used when a file entry names neither a listing date
// nor a catalog product.
var DefaultListingDate = model.Date(2010, 1, 1)

// fileEntry is one instrument in a .yaml/.json instruments file.
type fileEntry struct {
	Name    string `yaml:"name" json:"name"`
	Code    string `yaml:"code" json:"code"`
	Venue   string `yaml:"venue" json:"venue"`
	Listing string `yaml:"listing_date" json:"listing_date"`
}

// LoadFile reads a list of instruments from a file.
// Supported formats:
//   - .yaml/.yml : list of {name, code, venue, listing_date}
//   - .json      : JSON array of the same objects
//   - .txt       : one CODE.VENUE[,YYYYMMDD[,name]] per line, '#' lines are comments
//
// Entries missing a listing date or name borrow them from the catalog.
func LoadFile(path string) ([]model.Instrument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instruments file %s: %w", path, err)
	}

	var entries []fileEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &entries); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(content, &entries); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case ".txt":
		entries, err = parseText(string(content))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported instruments file extension %q (use .yaml, .json or .txt)", filepath.Ext(path))
	}

	out, err := resolve(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded instruments from file", "count", len(out), "path", path)
	return out, nil
}

// LoadFileOrCatalog loads path when set, the built-in catalog otherwise.
func LoadFileOrCatalog(path string) ([]model.Instrument, error) {
	if path == "" {
		return Catalog(), nil
	}
	return LoadFile(path)
}

func parseText(s string) ([]fileEntry, error) {
	var entries []fileEntry
	for n, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		key, err := model.ParseInstrumentKey(parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		e := fileEntry{Code: key.Symbol, Venue: string(key.Venue)}
		if len(parts) > 1 {
			e.Listing = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			e.Name = strings.TrimSpace(parts[2])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// resolve validates entries, fills gaps from the catalog and drops duplicates keeping order.
func resolve(entries []fileEntry) ([]model.Instrument, error) {
	seen := make(map[model.InstrumentKey]bool)
	var out []model.Instrument
	for _, e := range entries {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if code == "" {
			return nil, fmt.Errorf("instrument entry without code")
		}
		venue, err := model.ParseVenue(e.Venue)
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", code, err)
		}
		inst := model.Instrument{Name: e.Name, Code: code, Venue: venue}
		known, inCatalog := Lookup(inst.Key())
		if inst.Name == "" && inCatalog {
			inst.Name = known.Name
		}
		switch {
		case e.Listing != "":
			d, err := model.ParseDate(e.Listing)
			if err != nil {
				return nil, fmt.Errorf("instrument %s: listing date: %w", inst.Key(), err)
			}
			inst.ListingDate = d
		case inCatalog:
			inst.ListingDate = known.ListingDate
		default:
			inst.ListingDate = DefaultListingDate
		}
		if seen[inst.Key()] {
			continue
		}
		seen[inst.Key()] = true
		out = append(out, inst)
	}
	return out, nil
}

// Keys returns the instrument keys in order.
func Keys(list []model.Instrument) []model.InstrumentKey {
	keys := make([]model.InstrumentKey, len(list))
	for i, inst := range list {
		keys[i] = inst.Key()
	}
	return keys
}

// Earliest returns the smallest listing date in list, or the zero time for an empty list.
func Earliest(list []model.Instrument) time.Time {
	var min time.Time
	for _, inst := range list {
		if min.IsZero() || inst.ListingDate.Before(min) {
			min = inst.ListingDate
		}
	}
	return min
}
