package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"futures-data/internal/model"
)

// Row is one raw vendor record. Numeric fields keep the decoded vendor value
// (float64, json.Number, string or nil) so normalization decides what is missing.
type Row struct {
	Date         time.Time // zero when the vendor date could not be parsed
	Open         any
	High         any
	Low          any
	Close        any
	Volume       any
	OpenInterest any
}

// BarFetcher is implemented by every vendor client used for bulk downloads.
// Implementations return rows in ascending date order, or an empty slice when
// the vendor has nothing for the range.
type BarFetcher interface {
	FetchBars(ctx context.Context, inst model.Instrument, start, end time.Time) ([]Row, error)
}

// DataProvider is the abstraction used by the application when accessing a data source.
// Implementations are responsible for their own resource cleanup.
type DataProvider interface {
	BarFetcher
	GetName() string
	Close() error
}

// ErrRateLimited is wrapped by vendor clients when the vendor rejects a call for quota reasons.
var ErrRateLimited = errors.New("vendor rate limit")

// rateLimitSignatures are message fragments vendors use for per-minute quota rejections.
var rateLimitSignatures = []string{
	"每分钟最多访问",
	"频率",
	"rate limit",
	"too many requests",
}

// IsRateLimit reports whether err signals a vendor rate-limit condition,
// either through ErrRateLimited or a known message signature.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range rateLimitSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
