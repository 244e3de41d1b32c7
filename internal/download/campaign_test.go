package download

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-data/internal/model"
	"futures-data/internal/provider"
)

var (
	copper = model.Instrument{Name: "沪铜", Code: "CU", Venue: model.SHFE, ListingDate: model.Date(2022, 1, 4)}
	gold   = model.Instrument{Name: "沪金", Code: "AU", Venue: model.SHFE, ListingDate: model.Date(2023, 6, 1)}
)

var campaignEnd = model.Date(2024, 12, 31)

func okFetcher() *fakeFetcher {
	return &fakeFetcher{fn: func(_ int, _ model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		return dailyRows(start, 2), nil
	}}
}

type campaignFixture struct {
	fetcher *fakeFetcher
	store   *memStore
	sleep   *sleepRecorder
	cp      *Checkpoint
	c       *Campaign
}

func newCampaignFixture(t *testing.T, f *fakeFetcher, cfg CampaignConfig) *campaignFixture {
	t.Helper()
	fx := &campaignFixture{
		fetcher: f,
		store:   &memStore{},
		sleep:   &sleepRecorder{},
		cp:      NewCheckpoint(filepath.Join(t.TempDir(), "download_state.json")),
	}
	if cfg.End.IsZero() {
		cfg.End = campaignEnd
	}
	dl := newTestDownloader(f, fx.store, fx.sleep)
	fx.c = NewCampaign(dl, fx.cp, cfg, quietLogger)
	return fx
}

func TestCampaignDownloadsEveryChunk(t *testing.T) {
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{})

	sum := fx.c.Run(context.Background(), []model.Instrument{rebar, copper})

	assert.Equal(t, 6, fx.fetcher.callsFor("RB.SHFE"))
	assert.Equal(t, 1, fx.fetcher.callsFor("CU.SHFE"))
	assert.Equal(t, model.Date(2009, 3, 27), fx.fetcher.calls[0].Start)
	assert.Equal(t, model.Date(2011, 12, 31), fx.fetcher.calls[0].End)
	assert.Equal(t, campaignEnd, fx.fetcher.calls[5].End)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, 14, sum.TotalBars)
	assert.Equal(t, 14, fx.store.total())
	assert.False(t, sum.Interrupted)

	s, err := fx.cp.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"RB.SHFE", "CU.SHFE"}, s.Keys())
}

func TestCampaignResumesFromCheckpoint(t *testing.T) {
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{})
	require.NoError(t, os.WriteFile(fx.cp.Path(), []byte(`{"completed": ["RB.SHFE"]}`), 0644))

	sum := fx.c.Run(context.Background(), []model.Instrument{rebar, copper})

	assert.Zero(t, fx.fetcher.callsFor("RB.SHFE"))
	assert.Equal(t, 1, fx.fetcher.callsFor("CU.SHFE"))
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Succeeded)
}

func TestCampaignSecondRunIsNoop(t *testing.T) {
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{})
	list := []model.Instrument{rebar, copper}
	fx.c.Run(context.Background(), list)
	calls := len(fx.fetcher.calls)

	sum := fx.c.Run(context.Background(), list)

	assert.Len(t, fx.fetcher.calls, calls)
	assert.Equal(t, 2, sum.Skipped)
	assert.Zero(t, sum.Succeeded)
	assert.Zero(t, sum.TotalBars)
}

func TestCampaignFailedInstrumentNotMarked(t *testing.T) {
	f := &fakeFetcher{fn: func(_ int, inst model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		if inst.Code == "CU" {
			return nil, errBoom
		}
		return dailyRows(start, 1), nil
	}}
	fx := newCampaignFixture(t, f, CampaignConfig{})

	sum := fx.c.Run(context.Background(), []model.Instrument{copper, gold})

	assert.Equal(t, 1, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []string{"CU.SHFE"}, sum.FailedKeys)
	require.Len(t, sum.Failures, 1)
	assert.True(t, strings.HasPrefix(sum.Failures[0].Reason, "error: "))

	s, err := fx.cp.Load()
	require.NoError(t, err)
	assert.False(t, s.Has("CU.SHFE"))
	assert.True(t, s.Has("AU.SHFE"))
}

func TestCampaignAllInvalidCountsAsFailed(t *testing.T) {
	f := &fakeFetcher{fn: func(_ int, _ model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		return []provider.Row{{Date: start}}, nil
	}}
	fx := newCampaignFixture(t, f, CampaignConfig{})

	sum := fx.c.Run(context.Background(), []model.Instrument{copper})

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, "all rows invalid (skipped 1)", sum.Failures[0].Reason)
}

func TestCampaignInterruptFlushesCheckpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &fakeFetcher{fn: func(_ int, inst model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		if inst.Code == "RB" && start.Year() == 2012 {
			cancel()
		}
		return dailyRows(start, 2), nil
	}}
	fx := newCampaignFixture(t, f, CampaignConfig{})

	sum := fx.c.Run(ctx, []model.Instrument{copper, rebar, gold})

	assert.True(t, sum.Interrupted)
	assert.Equal(t, 1, sum.Succeeded)
	assert.Zero(t, fx.fetcher.callsFor("AU.SHFE"))
	assert.Equal(t, 2, fx.fetcher.callsFor("RB.SHFE"))

	s, err := fx.cp.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"CU.SHFE"}, s.Keys())
}

func TestCampaignCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{})

	sum := fx.c.Run(ctx, []model.Instrument{copper})

	assert.True(t, sum.Interrupted)
	assert.Empty(t, fx.fetcher.calls)
	assert.FileExists(t, fx.cp.Path())
}

func TestCampaignProgressEvery(t *testing.T) {
	var buf bytes.Buffer
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{ProgressEvery: 2})
	fx.c.logger = slog.New(slog.NewTextHandler(&buf, nil))

	fx.c.Run(context.Background(), []model.Instrument{copper, gold, {Name: "沪银", Code: "AG", Venue: model.SHFE, ListingDate: model.Date(2024, 1, 2)}})

	assert.Equal(t, 1, strings.Count(buf.String(), "msg=progress"))
	assert.Contains(t, buf.String(), "position=2")
}

func TestCampaignWritesReport(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{fn: func(_ int, inst model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		if inst.Code == "AU" {
			return nil, nil
		}
		return dailyRows(start, 1), nil
	}}
	fx := newCampaignFixture(t, f, CampaignConfig{ReportDir: dir})

	fx.c.Run(context.Background(), []model.Instrument{copper, gold})

	ok, err := os.ReadFile(filepath.Join(dir, successReportName))
	require.NoError(t, err)
	assert.JSONEq(t, `["CU.SHFE"]`, string(ok))
	failed, err := os.ReadFile(filepath.Join(dir, failedReportName))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"AU.SHFE","reason":"no data"}]`, string(failed))
}

func TestCampaignArchiveOnFinish(t *testing.T) {
	fx := newCampaignFixture(t, okFetcher(), CampaignConfig{ArchiveOnFinish: true})
	fx.c.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	fx.c.Run(context.Background(), []model.Instrument{copper})

	assert.NoFileExists(t, fx.cp.Path())
	assert.FileExists(t, fx.cp.Path()+".20250102-030405.done")
}

func TestJoinFailedReasonsTruncates(t *testing.T) {
	var list []FailedInstrument
	for _, k := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		list = append(list, FailedInstrument{Key: k + ".SHFE", Reason: "no data"})
	}
	got := joinFailedReasons(list)
	assert.True(t, strings.HasSuffix(got, "(+2 more)"), got)
	assert.NotContains(t, got, "F.SHFE")
}

func TestCampaignPanicMidInstrumentNotMarked(t *testing.T) {
	f := &fakeFetcher{fn: func(n int, inst model.Instrument, start, _ time.Time) ([]provider.Row, error) {
		if n == 2 {
			panic("decoder blew up")
		}
		return dailyRows(start, 2), nil
	}}
	fx := newCampaignFixture(t, f, CampaignConfig{})

	sum := fx.c.Run(context.Background(), []model.Instrument{rebar})

	assert.Equal(t, 1, sum.Failed)
	assert.Zero(t, sum.Succeeded)
	assert.Zero(t, sum.TotalBars)
	assert.Equal(t, []string{"RB.SHFE"}, sum.FailedKeys)
	assert.Equal(t, "panic: decoder blew up", sum.Failures[0].Reason)

	s, err := fx.cp.Load()
	require.NoError(t, err)
	assert.False(t, s.Has("RB.SHFE"))
}
