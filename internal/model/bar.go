package model

import (
	"math"
	"time"
)

// MissingValue marks a numeric bar field the vendor did not supply.
// It is never a legitimate price, volume or open interest.
const MissingValue = -9999.99

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool {
	return v == MissingValue
}

// Interval is the bar granularity.
type Interval string

const (
	IntervalMinute Interval = "1m"
	IntervalHour   Interval = "1h"
	IntervalDaily  Interval = "d"
	IntervalWeekly Interval = "w"
)

// ParseInterval converts "1m|1h|d|w" (also "daily", "1d") to Interval.
func ParseInterval(s string) (Interval, bool) {
	switch s {
	case "1m", "minute":
		return IntervalMinute, true
	case "1h", "60m", "hour":
		return IntervalHour, true
	case "d", "1d", "daily":
		return IntervalDaily, true
	case "w", "1w", "weekly":
		return IntervalWeekly, true
	default:
		return "", false
	}
}

// Bar represents one OHLCV bar with open interest.
// Shared by the downloader, the stores and serialization (json, csv, parquet).
type Bar struct {
	Symbol       string   `json:"symbol" parquet:"symbol"`
	Venue        Venue    `json:"venue" parquet:"venue"`
	Interval     Interval `json:"interval" parquet:"interval"`
	Timestamp    int64    `json:"t" parquet:"t"` // Unix timestamp in milliseconds
	Open         float64  `json:"o" parquet:"o"`
	High         float64  `json:"h" parquet:"h"`
	Low          float64  `json:"l" parquet:"l"`
	Close        float64  `json:"c" parquet:"c"`
	Volume       float64  `json:"v" parquet:"v"`
	OpenInterest float64  `json:"oi" parquet:"oi"`
}

// Time returns the bar timestamp in UTC.
func (b Bar) Time() time.Time {
	return time.UnixMilli(b.Timestamp).UTC()
}

// Key returns the instrument key the bar belongs to.
func (b Bar) Key() InstrumentKey {
	return InstrumentKey{Symbol: b.Symbol, Venue: b.Venue}
}

// HasMissing reports whether any numeric field carries the sentinel.
func (b Bar) HasMissing() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest} {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

// Finite returns v unchanged when it is a usable number, MissingValue otherwise.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MissingValue
	}
	return v
}
