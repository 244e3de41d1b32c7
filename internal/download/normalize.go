package download

import (
	"encoding/json"
	"strconv"
	"strings"

	"futures-data/internal/model"
	"futures-data/internal/provider"
)

// Normalize converts vendor rows into bars. Each absent or non-numeric field becomes
// model.MissingValue. A row is skipped, and counted, when it has no date or when all
// six numeric fields are invalid.
func Normalize(inst model.Instrument, interval model.Interval, rows []provider.Row) (bars []model.Bar, skipped int) {
	bars = make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		if r.Date.IsZero() {
			skipped++
			continue
		}
		var vals [6]float64
		valid := 0
		for i, raw := range [...]any{r.Open, r.High, r.Low, r.Close, r.Volume, r.OpenInterest} {
			v, ok := numeric(raw)
			if !ok {
				v = model.MissingValue
			} else {
				valid++
			}
			vals[i] = v
		}
		if valid == 0 {
			skipped++
			continue
		}
		bars = append(bars, model.Bar{
			Symbol:       inst.Code,
			Venue:        inst.Venue,
			Interval:     interval,
			Timestamp:    r.Date.UnixMilli(),
			Open:         vals[0],
			High:         vals[1],
			Low:          vals[2],
			Close:        vals[3],
			Volume:       vals[4],
			OpenInterest: vals[5],
		})
	}
	return bars, skipped
}

// numeric extracts a finite float from a decoded vendor value.
func numeric(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if model.IsMissing(model.Finite(f)) {
		return 0, false
	}
	return f, true
}
