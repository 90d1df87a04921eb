package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultHolidaysURL serves Japanese public holidays as {"YYYY-MM-DD": "name"}.
const DefaultHolidaysURL = "https://holidays-jp.github.io/api/v1/date.json"

// ErrHolidaysUnavailable is returned when the holiday source cannot be read.
var ErrHolidaysUnavailable = errors.New("holidays unavailable")

// HolidayFetcher loads the public holiday calendar.
type HolidayFetcher interface {
	Fetch(ctx context.Context) (Holidays, error)
}

// FetcherConfig tunes the HTTP fetcher.
type FetcherConfig struct {
	URL             string
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
}

func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		URL:             DefaultHolidaysURL,
		Timeout:         5 * time.Second,
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
	}
}

type httpHolidayFetcher struct {
	cfg  FetcherConfig
	http *http.Client
}

// NewHTTPHolidayFetcher creates a fetcher that GETs cfg.URL, retrying
// transient failures with exponential backoff.
func NewHTTPHolidayFetcher(cfg FetcherConfig) HolidayFetcher {
	return &httpHolidayFetcher{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (f *httpHolidayFetcher) Fetch(ctx context.Context) (Holidays, error) {
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	bo := backoff.NewExponentialBackOff()
	if f.cfg.InitialInterval > 0 {
		bo.InitialInterval = f.cfg.InitialInterval
	}
	bo.MaxElapsedTime = 0

	var holidays Holidays
	err := backoff.Retry(func() error {
		h, err := f.doRequest(ctx)
		if err != nil {
			return err
		}
		holidays = h
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(max(f.cfg.MaxRetries, 0))), ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHolidaysUnavailable, err)
	}
	return holidays, nil
}

func (f *httpHolidayFetcher) doRequest(ctx context.Context) (Holidays, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("holiday source returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("holiday source returned status %d", resp.StatusCode))
	}

	var h Holidays
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decoding holidays: %w", err))
	}
	return h, nil
}

// StaticHolidays is a fixed calendar, used when fetching is disabled and in
// tests.
type StaticHolidays Holidays

func (s StaticHolidays) Fetch(context.Context) (Holidays, error) {
	return Holidays(s), nil
}

// FetchOrEmpty fetches holidays and degrades to an empty calendar on
// failure, logging a warning. A nil fetcher yields an empty calendar.
func FetchOrEmpty(ctx context.Context, f HolidayFetcher, logger *slog.Logger) Holidays {
	if f == nil {
		return Holidays{}
	}
	h, err := f.Fetch(ctx)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("holiday fetch failed, treating all days as non-holidays", "error", err)
		return Holidays{}
	}
	if h == nil {
		return Holidays{}
	}
	return h
}
