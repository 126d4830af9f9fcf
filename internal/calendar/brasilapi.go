package calendar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAPIURL is the BrasilAPI national holidays endpoint
	DefaultAPIURL      = "https://brasilapi.com.br/api/feriados/v1/{year}"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// APIProvider implements Provider using a BrasilAPI-compatible HTTP endpoint.
// Responses are cached per year.
type APIProvider struct {
	httpClient *http.Client
	logger     *zap.Logger
	urlPattern string // contains {year}
	cache      map[int]*cachedYear
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
}

type cachedYear struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// apiHoliday represents one element of the BrasilAPI response
type apiHoliday struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewAPIProvider creates a new APIProvider
func NewAPIProvider(urlPattern string, timeout, cacheTTL time.Duration, logger *zap.Logger) *APIProvider {
	if urlPattern == "" {
		urlPattern = DefaultAPIURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &APIProvider{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		urlPattern: urlPattern,
		cache:      make(map[int]*cachedYear),
		cacheTTL:   cacheTTL,
	}
}

// Holidays returns the holidays of all years; any failed year fails the call
func (p *APIProvider) Holidays(years []int) ([]Holiday, error) {
	var out []Holiday
	for _, year := range years {
		hs, err := p.yearHolidays(year)
		if err != nil {
			return nil, err
		}
		out = append(out, hs...)
	}
	sortHolidays(out)
	return out, nil
}

func (p *APIProvider) yearHolidays(year int) ([]Holiday, error) {
	p.cacheMu.RLock()
	if cached, ok := p.cache[year]; ok {
		if time.Since(cached.fetchedAt) < p.cacheTTL {
			p.cacheMu.RUnlock()
			p.logger.Debug("Using cached holidays", zap.Int("year", year))
			return cached.holidays, nil
		}
	}
	p.cacheMu.RUnlock()

	holidays, err := p.fetchYear(year)
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[year] = &cachedYear{
		holidays:  holidays,
		fetchedAt: time.Now(),
	}
	p.cacheMu.Unlock()

	return holidays, nil
}

// fetchYear downloads one year of holidays
func (p *APIProvider) fetchYear(year int) ([]Holiday, error) {
	url := strings.ReplaceAll(p.urlPattern, "{year}", strconv.Itoa(year))

	p.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Int("year", year))

	resp, err := p.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	var items []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse holiday JSON: %w", err)
	}

	holidays, err := p.parseResponse(year, items)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// parseResponse converts API items, dropping entries outside the requested year
// and observances the feed lists next to the national holidays
func (p *APIProvider) parseResponse(year int, items []apiHoliday) ([]Holiday, error) {
	holidays := make([]Holiday, 0, len(items))
	for _, item := range items {
		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", item.Date, err)
		}
		if date.Year() != year {
			p.logger.Warn("Holiday outside requested year",
				zap.String("date", item.Date),
				zap.Int("year", year))
			continue
		}
		if IsObservance(item.Name) {
			p.logger.Debug("Skipping observance",
				zap.String("date", item.Date),
				zap.String("name", item.Name))
			continue
		}
		holidays = append(holidays, Holiday{Date: date, Name: item.Name})
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays, nil
}

// ClearCache clears the cache
func (p *APIProvider) ClearCache() {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	p.cache = make(map[int]*cachedYear)
	p.logger.Info("Holiday cache cleared")
}
