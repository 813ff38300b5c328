package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"foodintel/cache"
	"foodintel/clients"
	"foodintel/config"
	"foodintel/database"
	"foodintel/models"
)

type fakeShopping struct {
	items []models.RawListing
	err   error
	calls int
	last  clients.ShoppingQuery
}

func (f *fakeShopping) SearchShopping(_ context.Context, q clients.ShoppingQuery) ([]models.RawListing, error) {
	f.calls++
	f.last = q
	return f.items, f.err
}

type fakeTrend struct {
	series []models.TrendSeries
	err    error
	calls  int
	last   clients.TrendQuery
}

func (f *fakeTrend) SearchTrend(_ context.Context, q clients.TrendQuery) ([]models.TrendSeries, error) {
	f.calls++
	f.last = q
	return f.series, f.err
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func (f *fakeGenerator) Model() string { return "test-model" }

type fakeArchive struct {
	reports []models.Report
	saveErr error
}

func (f *fakeArchive) Save(_ context.Context, r *models.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if r.ID == "" {
		r.ID = "rep-1"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	}
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeArchive) Get(_ context.Context, id string) (*models.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			return &f.reports[i], nil
		}
	}
	return nil, database.ErrReportNotFound
}

func (f *fakeArchive) List(_ context.Context, limit int) ([]models.Report, error) {
	if limit > 0 && len(f.reports) > limit {
		return f.reports[:limit], nil
	}
	return f.reports, nil
}

type fakeRegistry struct {
	result models.RegistryResult
	err    error
}

func (f *fakeRegistry) Fetch(context.Context, models.RegistryQuery) (models.RegistryResult, error) {
	return f.result, f.err
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memoryCache) Close() error { return nil }

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Close() error { return nil }

func testAnalytics() config.AnalyticsConfig {
	return config.Default().Analytics
}

func monthlySeries(name string, ratios ...float64) models.TrendSeries {
	s := models.TrendSeries{GroupName: name}
	for i, r := range ratios {
		s.Points = append(s.Points, models.TrendPoint{
			Period: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Ratio:  r,
		})
	}
	return s
}

func rawListing(title, price, brand, image string) models.RawListing {
	return models.RawListing{Title: title, LPrice: price, Brand: brand, MallName: "몰", Category1: "식품", Category2: "음료", Image: image}
}
