package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"futures-data/internal/model"
	"futures-data/internal/saver"
)

// FileStore keeps one packet file per appended batch:
// {dir}/{CODE.VENUE}/{interval}_{from}_to_{to}[_n].{ext}
type FileStore struct {
	dir   string
	codec saver.PacketCodec
}

// NewFileStore creates the base directory and returns a store writing packets with codec.
func NewFileStore(dir string, codec saver.PacketCodec) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) Close() error { return nil }

// Append writes bars as one packet per (instrument, interval) group.
func (s *FileStore) Append(ctx context.Context, bars []model.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	type group struct {
		key      model.InstrumentKey
		interval model.Interval
	}
	var order []group
	groups := make(map[group][]model.Bar)
	for _, b := range bars {
		g := group{b.Key(), b.Interval}
		if _, ok := groups[g]; !ok {
			order = append(order, g)
		}
		groups[g] = append(groups[g], b)
	}
	for _, g := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writePacket(g.key, g.interval, groups[g]); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) writePacket(key model.InstrumentKey, interval model.Interval, bars []model.Bar) error {
	dir := filepath.Join(s.dir, key.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("file store: cannot create folder %s: %w", dir, err)
	}
	from := bars[0].Time().Format(model.DateLayout)
	to := bars[len(bars)-1].Time().Format(model.DateLayout)
	base := fmt.Sprintf("%s_%s_to_%s", interval, from, to)
	path := filepath.Join(dir, base+"."+s.codec.Extension())
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.%s", base, n, s.codec.Extension()))
	}
	if err := s.codec.Save(bars, path); err != nil {
		return fmt.Errorf("file store: write %s: %w", path, err)
	}
	return nil
}

// Query reads every packet of key for interval and filters by time.
func (s *FileStore) Query(ctx context.Context, key model.InstrumentKey, interval model.Interval, start, end time.Time) ([]model.Bar, error) {
	files, err := s.packets(key, interval)
	if err != nil {
		return nil, err
	}
	lo, hi := start.UnixMilli(), end.UnixMilli()
	var out []model.Bar
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := s.codec.Load(f)
		if err != nil {
			return nil, fmt.Errorf("file store: read %s: %w", f, err)
		}
		for _, b := range bars {
			if b.Interval == interval && b.Timestamp >= lo && b.Timestamp <= hi {
				out = append(out, b)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// Overview scans every instrument directory.
func (s *FileStore) Overview(ctx context.Context) ([]Overview, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	var out []Overview
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		key, err := model.ParseInstrumentKey(e.Name())
		if err != nil {
			continue
		}
		byInterval := make(map[model.Interval]*Overview)
		files, err := s.packets(key, "")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			bars, err := s.codec.Load(f)
			if err != nil {
				return nil, fmt.Errorf("file store: read %s: %w", f, err)
			}
			for _, b := range bars {
				ov, ok := byInterval[b.Interval]
				if !ok {
					ov = &Overview{Key: key, Interval: b.Interval, First: b.Time(), Last: b.Time()}
					byInterval[b.Interval] = ov
				}
				ov.Count++
				if b.Time().Before(ov.First) {
					ov.First = b.Time()
				}
				if b.Time().After(ov.Last) {
					ov.Last = b.Time()
				}
			}
		}
		for _, ov := range byInterval {
			out = append(out, *ov)
		}
	}
	sortOverview(out)
	return out, nil
}

// packets lists packet files of key, restricted to interval unless it is empty.
func (s *FileStore) packets(key model.InstrumentKey, interval model.Interval) ([]string, error) {
	dir := filepath.Join(s.dir, key.String())
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	ext := "." + s.codec.Extension()
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		if interval != "" && !strings.HasPrefix(name, string(interval)+"_") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func sortOverview(list []Overview) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Key.Venue != list[j].Key.Venue {
			return list[i].Key.Venue < list[j].Key.Venue
		}
		if list[i].Key.Symbol != list[j].Key.Symbol {
			return list[i].Key.Symbol < list[j].Key.Symbol
		}
		return list[i].Interval < list[j].Interval
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
