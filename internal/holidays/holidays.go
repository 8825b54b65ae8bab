// Package holidays downloads and caches the official Iranian holiday list
// for a Jalali year.
package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Aria-Ghojavand/shamsy-calendar/internal/logger"
	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

// Holidays maps "YYYY-MM-DD" Jalali dates to their description.
type Holidays map[string]string

// Lookup returns the description of d, if d is a holiday.
func (h Holidays) Lookup(d jalali.Date) (string, bool) {
	desc, ok := h[d.String()]
	return desc, ok
}

// Merge copies other into h.
func (h Holidays) Merge(other Holidays) {
	for k, v := range other {
		h[k] = v
	}
}

type CalendarResponse struct {
	Status bool                 `json:"status"`
	Result map[string]MonthData `json:"result"`
}

type MonthData map[string]DayData

type DayData struct {
	Solar   DateInfo `json:"solar"`
	Holiday bool     `json:"holiday"`
	Event   []string `json:"event"`
}

type DateInfo struct {
	Day     int    `json:"day"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	DayWeek string `json:"dayWeek"`
}

// Source is anything that can produce the holidays of a Jalali year.
type Source interface {
	Fetch(ctx context.Context, year int) (Holidays, error)
}

// Client fetches holidays over HTTP and keeps one JSON file per year in
// its cache directory.
type Client struct {
	apiURL   string
	http     *http.Client
	cacheDir string
	progress io.Writer
	logger   *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCacheDir enables the on-disk cache.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// WithProgress draws a spinner on w while downloading.
func WithProgress(w io.Writer) Option {
	return func(c *Client) { c.progress = w }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(apiURL string, opts ...Option) *Client {
	c := &Client{
		apiURL: apiURL,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the holidays of Jalali year, from cache when available.
func (c *Client) Fetch(ctx context.Context, year int) (Holidays, error) {
	cacheFile := c.cacheFile(year)
	if cacheFile != "" {
		if cached, err := readFromCache(cacheFile); err == nil {
			return cached, nil
		}
	}

	holidays, err := c.download(ctx, year)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if err := saveToCache(cacheFile, holidays); err != nil {
			c.logger.Warnw("Failed to save holidays to cache", "file", cacheFile, "error", err)
		}
	}
	return holidays, nil
}

func (c *Client) download(ctx context.Context, year int) (Holidays, error) {
	url := fmt.Sprintf("%s?year=%d&holiday=true", c.apiURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	progress := c.progress
	if progress == nil {
		progress = io.Discard
	}
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Fetching holidays..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Close()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	reader := progressbar.NewReader(resp.Body, bar)
	body, err := io.ReadAll(&reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var calendar CalendarResponse
	if err := json.Unmarshal(body, &calendar); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if !calendar.Status {
		return nil, fmt.Errorf("API returned status false")
	}

	holidays := make(Holidays)
	for _, days := range calendar.Result {
		for _, dayData := range days {
			if !dayData.Holiday {
				continue
			}
			d := jalali.Date{Year: dayData.Solar.Year, Month: dayData.Solar.Month, Day: dayData.Solar.Day}
			if len(dayData.Event) > 0 {
				holidays[d.String()] = strings.Join(dayData.Event, "; ")
			} else {
				holidays[d.String()] = "Holiday"
			}
		}
	}
	c.logger.Debugw("Fetched holidays", "year", year, "count", len(holidays))
	return holidays, nil
}

func (c *Client) cacheFile(year int) string {
	if c.cacheDir == "" {
		return ""
	}
	return filepath.Join(c.cacheDir, fmt.Sprintf("holidays_%d.json", year))
}

func readFromCache(cacheFile string) (Holidays, error) {
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, err
	}
	var holidays Holidays
	if err := json.Unmarshal(data, &holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

func saveToCache(cacheFile string, holidays Holidays) error {
	if err := os.MkdirAll(filepath.Dir(cacheFile), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.Marshal(holidays)
	if err != nil {
		return fmt.Errorf("failed to marshal holidays to JSON: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(cacheFile), ".holidays-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp.Name(), cacheFile)
}

// FetchSpan returns the holidays of every Jalali year touched by the
// Gregorian year gy.
func FetchSpan(ctx context.Context, src Source, gy int) (Holidays, error) {
	first, err := jalali.FromGregorian(gy, 1, 1)
	if err != nil {
		return nil, err
	}
	holidays, err := src.Fetch(ctx, first.Year)
	if err != nil {
		return nil, err
	}
	if next, err := src.Fetch(ctx, first.Year+1); err == nil {
		holidays.Merge(next)
	}
	return holidays, nil
}
