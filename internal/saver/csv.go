package saver

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"futures-data/internal/model"
)

var csvHeader = []string{"symbol", "venue", "interval", "t", "o", "h", "l", "c", "v", "oi"}

// CSVCodec stores a packet as CSV (header: symbol,venue,interval,t,o,h,l,c,v,oi).
type CSVCodec struct{}

func (CSVCodec) Extension() string { return "csv" }

func (CSVCodec) Save(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write([]string{
			b.Symbol,
			string(b.Venue),
			string(b.Interval),
			strconv.FormatInt(b.Timestamp, 10),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
			floatStr(b.OpenInterest),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (CSVCodec) Load(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	var bars []model.Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		b, err := parseCSVRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		bars = append(bars, b)
	}
}

func parseCSVRecord(rec []string) (model.Bar, error) {
	ts, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return model.Bar{}, err
	}
	var nums [6]float64
	for i := range nums {
		if nums[i], err = strconv.ParseFloat(rec[4+i], 64); err != nil {
			return model.Bar{}, err
		}
	}
	return model.Bar{
		Symbol:       rec[0],
		Venue:        model.Venue(rec[1]),
		Interval:     model.Interval(rec[2]),
		Timestamp:    ts,
		Open:         nums[0],
		High:         nums[1],
		Low:          nums[2],
		Close:        nums[3],
		Volume:       nums[4],
		OpenInterest: nums[5],
	}, nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
