package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"foodintel/apperr"
	"foodintel/clients"
	"foodintel/config"
	"foodintel/database"
	"foodintel/handlers"
	"foodintel/logger"
	"foodintel/middleware"
	"foodintel/models"
	"foodintel/routes"
	"foodintel/services"
)

const testSecret = "handler-test-secret"

type stubShopping struct {
	items []models.RawListing
	err   error
}

func (s stubShopping) SearchShopping(context.Context, clients.ShoppingQuery) ([]models.RawListing, error) {
	return s.items, s.err
}

type stubRegistry struct {
	result models.RegistryResult
	err    error
}

func (s stubRegistry) Fetch(context.Context, models.RegistryQuery) (models.RegistryResult, error) {
	return s.result, s.err
}

type stubArchive struct{}

func (stubArchive) Save(context.Context, *models.Report) error { return nil }
func (stubArchive) Get(context.Context, string) (*models.Report, error) {
	return nil, database.ErrReportNotFound
}
func (stubArchive) List(context.Context, int) ([]models.Report, error) { return nil, nil }

type testEnv struct {
	caps     config.Capabilities
	shopping services.ShoppingSearcher
	registry services.RegistryFetcher
	archive  services.ReportArchive
}

func newApp(t *testing.T, env testEnv) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.Username = "analyst"
	cfg.Auth.PasswordHash = string(hash)

	market := services.NewMarketService(services.MarketDeps{Shopping: env.shopping, Analytics: cfg.Analytics})
	h := handlers.New(handlers.Handlers{
		Auth:     cfg.Auth,
		Caps:     env.caps,
		Market:   market,
		Reports:  services.NewReportService(services.ReportDeps{Market: market, Archive: env.archive}),
		Shopping: services.NewShoppingService(env.shopping),
		Registry: services.NewRegistryService(env.registry),
		Log:      logger.Nop(),
	})

	app := fiber.New()
	routes.SetupRoutes(app, h)
	return app
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := middleware.CreateToken([]byte(testSecret), "analyst", "staff", time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path string, body any, auth bool) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+token(t))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func TestLogin(t *testing.T) {
	app := newApp(t, testEnv{})

	resp, body := do(t, app, "POST", "/api/v1/auth/login", models.LoginRequest{Username: "analyst", Password: "pass1234"}, false)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, body["accessToken"])

	resp, _ = do(t, app, "POST", "/api/v1/auth/login", models.LoginRequest{Username: "analyst", Password: "wrong"}, false)
	assert.Equal(t, 401, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/v1/auth/login", models.LoginRequest{Username: "analyst"}, false)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	app := newApp(t, testEnv{caps: config.Capabilities{Commerce: true}})

	resp, body := do(t, app, "GET", "/api/v1/capabilities", nil, false)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["commerce"])

	resp, _ = do(t, app, "GET", "/healthz", nil, false)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/v1/catalog", nil, false)
	assert.Equal(t, 401, resp.StatusCode)

	resp, body = do(t, app, "GET", "/api/v1/catalog", nil, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 5)
}

func TestMissingCapabilityIsServiceUnavailable(t *testing.T) {
	app := newApp(t, testEnv{})
	req := models.StrategyReportRequest{Analysis: models.AnalysisRequest{Category: "탄산음료", BrandChoice: "펩시"}}

	resp, body := do(t, app, "POST", "/api/v1/market/report", req, true)
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, "config", body["kind"])

	resp, _ = do(t, app, "GET", "/api/v1/registry/records", nil, true)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestAnalyzeMarket(t *testing.T) {
	shop := stubShopping{items: []models.RawListing{
		{Title: "펩시 제로 355ml", LPrice: "19900", Brand: "펩시", Category1: "식품", Image: "p.jpg"},
		{Title: "코카콜라 355ml", LPrice: "21900", Brand: "코카콜라", Category1: "식품"},
	}}
	app := newApp(t, testEnv{caps: config.Capabilities{Commerce: true}, shopping: shop})

	resp, body := do(t, app, "POST", "/api/v1/market/analyze", models.AnalysisRequest{Category: "탄산음료", BrandChoice: "펩시"}, true)
	require.Equal(t, 200, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "펩시", data["keyword"])
	assert.Equal(t, "disabled", data["trend"].(map[string]any)["state"])
	assert.Equal(t, "ok", data["shopping"].(map[string]any)["state"])

	resp, _ = do(t, app, "POST", "/api/v1/market/analyze", models.AnalysisRequest{Category: "탄산음료"}, true)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestShoppingCollectStates(t *testing.T) {
	app := newApp(t, testEnv{
		caps:     config.Capabilities{Commerce: true},
		shopping: stubShopping{items: []models.RawListing{{Title: "콜라 컵", Category1: "생활/건강"}}},
	})
	resp, body := do(t, app, "POST", "/api/v1/shopping/collect", services.CollectRequest{Keyword: "콜라"}, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "empty", body["state"])

	app = newApp(t, testEnv{
		caps:     config.Capabilities{Commerce: true},
		shopping: stubShopping{err: apperr.Provider("naver.SearchShopping", "024: Authentication failed")},
	})
	resp, body = do(t, app, "POST", "/api/v1/shopping/collect", services.CollectRequest{Keyword: "콜라"}, true)
	assert.Equal(t, 502, resp.StatusCode)
	assert.Equal(t, "024: Authentication failed", body["message"])
}

func TestShoppingExportIsCSV(t *testing.T) {
	app := newApp(t, testEnv{
		caps:     config.Capabilities{Commerce: true},
		shopping: stubShopping{items: []models.RawListing{{Title: "콜라", LPrice: "1500", Category1: "식품"}}},
	})
	resp, _ := do(t, app, "POST", "/api/v1/shopping/export", services.CollectRequest{Keyword: "콜라"}, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

func TestRegistryTimeoutAndEmpty(t *testing.T) {
	app := newApp(t, testEnv{
		caps:     config.Capabilities{Registry: true},
		registry: stubRegistry{err: apperr.Timeout("registry.Fetch", 3, context.DeadlineExceeded)},
	})
	resp, body := do(t, app, "GET", "/api/v1/registry/records?start=1&end=10", nil, true)
	assert.Equal(t, 504, resp.StatusCode)
	assert.Equal(t, "timeout", body["kind"])

	app = newApp(t, testEnv{caps: config.Capabilities{Registry: true}, registry: stubRegistry{}})
	resp, body = do(t, app, "GET", "/api/v1/registry/records", nil, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "empty", body["state"])
}

func TestReports(t *testing.T) {
	app := newApp(t, testEnv{})
	resp, body := do(t, app, "GET", "/api/v1/reports", nil, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 5)

	app = newApp(t, testEnv{caps: config.Capabilities{Archive: true}, archive: stubArchive{}})
	resp, _ = do(t, app, "GET", "/api/v1/reports/unknown/export", nil, true)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWorkspace(t *testing.T) {
	app := newApp(t, testEnv{})

	resp, body := do(t, app, "GET", "/api/v1/workspace/risks?step="+url.QueryEscape("살균"), nil, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 1)

	resp, _ = do(t, app, "POST", "/api/v1/workspace/risks", models.RiskItem{Step: "살균", Grade: "high"}, true)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/v1/workspace/risks", models.RiskItem{Step: "살균", Item: "온도 기록 누락", Grade: "high"}, true)
	assert.Equal(t, 201, resp.StatusCode)

	resp, body = do(t, app, "POST", "/api/v1/workspace/production-plan", models.ProductionPlanRequest{Quantity: 1000, Unit: "1L"}, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1000.0, body["data"].(map[string]any)["totalLiters"])

	resp, _ = do(t, app, "POST", "/api/v1/workspace/production-plan", models.ProductionPlanRequest{Quantity: -5}, true)
	assert.Equal(t, 400, resp.StatusCode)

	resp, body = do(t, app, "GET", "/api/v1/workspace/library/summary", nil, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, body["data"], 4)

	resp, body = do(t, app, "POST", "/api/v1/workspace/dev-report", models.DevReportForm{Brand: "몬스터", Flavor: "망고", Version: "v1.0"}, true)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body["message"], "몬스터 망고")
}
