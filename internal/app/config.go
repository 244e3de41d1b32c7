package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"futures-data/internal/download"
	"futures-data/internal/model"
	"futures-data/internal/store"
)

// ErrMissingToken is returned when TUSHARE_TOKEN is not configured.
var ErrMissingToken = errors.New("TUSHARE_TOKEN not set")

// Config holds application configuration from env
type Config struct {
	DataProvider    string
	TushareToken    string
	TushareURL      string
	StoreBackend    string // sqlite | postgres | parquet | csv | json
	StoreDSN        string
	DataDir         string
	InstrumentsFile string
	LogLevel        string // debug | info | warn | error
	LogFile         string
	StateFile       string

	CampaignEnd       time.Time
	ChunkYears        int
	RequestDelay      time.Duration
	RateLimitCooldown time.Duration
	MaxRetries        int
	ProgressEvery     int
	ArchiveOnFinish   bool

	InspectStart    time.Time
	InspectEnd      time.Time
	InspectInterval model.Interval
}

// LoadConfig reads config from environment, after loading an optional .env file.
// Malformed values are errors; a missing token is not (see RequireToken).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataProvider:    getEnv("DATA_PROVIDER", "tushare"),
		TushareToken:    strings.TrimSpace(os.Getenv("TUSHARE_TOKEN")),
		TushareURL:      os.Getenv("TUSHARE_URL"),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", store.BackendSQLite)),
		StoreDSN:        os.Getenv("STORE_DSN"),
		DataDir:         getEnv("DATA_DIR", "data"),
		InstrumentsFile: os.Getenv("INSTRUMENTS_FILE"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		StateFile:       os.Getenv("STATE_FILE"),
	}

	var errs []error
	cfg.CampaignEnd = getDate("CAMPAIGN_END", model.Date(2024, time.December, 31), &errs)
	cfg.ChunkYears = getInt("CHUNK_YEARS", download.DefaultChunkYears, 1, &errs)
	cfg.RequestDelay = getDuration("REQUEST_DELAY", download.DefaultRequestDelay, &errs)
	cfg.RateLimitCooldown = getDuration("RATE_LIMIT_COOLDOWN", download.DefaultRateLimitCooldown, &errs)
	cfg.MaxRetries = getInt("MAX_RETRIES", download.DefaultMaxRetries, 0, &errs)
	cfg.ProgressEvery = getInt("PROGRESS_EVERY", download.DefaultProgressEvery, 1, &errs)
	cfg.ArchiveOnFinish = getBool("ARCHIVE_ON_FINISH", false, &errs)

	cfg.InspectEnd = getDate("INSPECT_END", cfg.CampaignEnd, &errs)
	cfg.InspectStart = getDate("INSPECT_START", cfg.InspectEnd.AddDate(-1, 0, 0), &errs)
	if v := os.Getenv("INSPECT_INTERVAL"); v != "" {
		iv, ok := model.ParseInterval(v)
		if !ok {
			errs = append(errs, fmt.Errorf("INSPECT_INTERVAL: unknown interval %q (use: 1m, 1h, d, w)", v))
		}
		cfg.InspectInterval = iv
	} else {
		cfg.InspectInterval = model.IntervalDaily
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "download_progress.log")
	}
	if cfg.StateFile == "" {
		cfg.StateFile = filepath.Join(cfg.DataDir, "download_state.json")
	}
	if cfg.StoreDSN == "" {
		cfg.StoreDSN = defaultDSN(cfg.StoreBackend, cfg.DataDir)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireToken fails with ErrMissingToken when no vendor token is configured.
func (c *Config) RequireToken() error {
	if c.TushareToken == "" {
		return ErrMissingToken
	}
	return nil
}

// ReportDir is where run reports are written: next to the state file.
func (c *Config) ReportDir() string {
	return filepath.Dir(c.StateFile)
}

func defaultDSN(backend, dataDir string) string {
	switch backend {
	case store.BackendSQLite:
		return filepath.Join(dataDir, "database.db")
	case store.BackendPostgres:
		return ""
	default:
		return filepath.Join(dataDir, "bars")
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def, floor int, errs *[]error) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < floor {
		*errs = append(*errs, fmt.Errorf("%s: want integer >= %d, got %q", key, floor, s))
		return def
	}
	return v
}

// getDuration accepts Go durations (65s, 1m5s) or plain seconds.
func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, s))
		return def
	}
	return d
}

func getDate(key string, def time.Time, errs *[]error) time.Time {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	t, err := model.ParseDate(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return t
}

func getBool(key string, def bool, errs *[]error) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, s))
		return def
	}
	return v
}
