package tushare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"

	"futures-data/internal/model"
	"futures-data/internal/provider"
)

const (
	// DefaultURL is the tushare pro HTTP endpoint.
	DefaultURL = "http://api.tushare.pro"

	apiFutDaily = "fut_daily"

	// codeRateLimited is returned when the per-minute quota for an endpoint is used up.
	codeRateLimited = 40203

	futDailyFields = "ts_code,trade_date,open,high,low,close,vol,oi"
)

// ErrEmptyToken is returned by NewClient when no token is configured.
var ErrEmptyToken = errors.New("tushare: empty token")

// ErrTruncated is returned when the vendor reports more rows than one call returns.
// Callers should request a shorter range.
var ErrTruncated = errors.New("tushare: result truncated (has_more), shorten the date range")

// Client fetches daily futures bars from tushare pro.
type Client struct {
	http  *resty.Client
	url   string
	token string
}

// baseTransportConfig returns the HTTP transport shared by tushare requests.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		ResponseHeaderTimeout: 2 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		DisableKeepAlives:     true,
	}
}

// NewClient constructs a tushare client. An empty url selects DefaultURL.
func NewClient(token, url string) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if url == "" {
		url = DefaultURL
	}
	rc := resty.New().
		SetTransport(baseTransportConfig()).
		SetTimeout(5*time.Minute).
		SetHeader("Content-Type", "application/json")
	rc.JSONMarshal = sonic.Marshal
	rc.JSONUnmarshal = sonic.Unmarshal
	return &Client{http: rc, url: url, token: token}, nil
}

// GetName returns provider name
func (c *Client) GetName() string {
	return "Tushare"
}

// Close closes idle connections
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

// FetchBars calls fut_daily for inst over [start, end] and returns rows in ascending date order.
// Rate-limit rejections wrap provider.ErrRateLimited.
func (c *Client) FetchBars(ctx context.Context, inst model.Instrument, start, end time.Time) ([]provider.Row, error) {
	tsCode, err := TSCode(inst)
	if err != nil {
		return nil, err
	}
	table, err := c.call(ctx, apiFutDaily, map[string]string{
		"ts_code":    tsCode,
		"start_date": start.Format(model.DateLayout),
		"end_date":   end.Format(model.DateLayout),
	}, futDailyFields)
	if err != nil {
		return nil, err
	}
	return tableRows(table), nil
}

func (c *Client) call(ctx context.Context, api string, params map[string]string, fields string) (*apiTable, error) {
	var out apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(apiRequest{APIName: api, Token: c.token, Params: params, Fields: fields}).
		SetResult(&out).
		ForceContentType("application/json").
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("tushare %s: %w", api, err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("tushare %s: http %d: %w", api, resp.StatusCode(), provider.ErrRateLimited)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tushare %s: http %d: %s", api, resp.StatusCode(), resp.String())
	}
	if out.Code == codeRateLimited {
		return nil, fmt.Errorf("tushare %s: %s: %w", api, out.Msg, provider.ErrRateLimited)
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("tushare %s: code %d: %s", api, out.Code, out.Msg)
	}
	if out.Data == nil {
		return &apiTable{}, nil
	}
	if out.Data.HasMore {
		return nil, fmt.Errorf("tushare %s: %d rows: %w", api, len(out.Data.Items), ErrTruncated)
	}
	return out.Data, nil
}

// tableRows converts the column/row payload into provider rows sorted by date.
func tableRows(t *apiTable) []provider.Row {
	iDate := t.column("trade_date")
	iOpen, iHigh, iLow, iClose := t.column("open"), t.column("high"), t.column("low"), t.column("close")
	iVol, iOI := t.column("vol"), t.column("oi")

	rows := make([]provider.Row, 0, len(t.Items))
	for _, item := range t.Items {
		r := provider.Row{
			Open:         cell(item, iOpen),
			High:         cell(item, iHigh),
			Low:          cell(item, iLow),
			Close:        cell(item, iClose),
			Volume:       cell(item, iVol),
			OpenInterest: cell(item, iOI),
		}
		if s, ok := cell(item, iDate).(string); ok {
			if d, err := model.ParseDate(s); err == nil {
				r.Date = d
			}
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Date.Before(rows[b].Date) })
	return rows
}
