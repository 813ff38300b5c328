// Package clients talks to the external providers: Naver shopping search and
// DataLab trends, the food-safety product registry, and Gemini.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodintel/apperr"
	"foodintel/config"
	"foodintel/models"
)

const (
	shoppingPath = "/v1/search/shop.json"
	trendPath    = "/v1/datalab/search"

	// MaxShoppingDisplay is the largest page the shopping search returns.
	MaxShoppingDisplay = 100
)

// ShoppingSorts are the sort orders the shopping search accepts.
var ShoppingSorts = map[string]bool{"sim": true, "asc": true, "dsc": true, "date": true}

// ShoppingQuery is one shopping search.
type ShoppingQuery struct {
	Query   string `json:"query"`
	Display int    `json:"display"`
	Sort    string `json:"sort"`
}

// TrendQuery is one DataLab search-trend request.
type TrendQuery struct {
	StartDate time.Time             `json:"startDate"`
	EndDate   time.Time             `json:"endDate"`
	TimeUnit  models.Granularity    `json:"timeUnit"`
	Groups    []models.KeywordGroup `json:"keywordGroups"`
}

// NaverClient calls the Naver open API. DataLab and shopping may use
// different credential pairs.
type NaverClient struct {
	baseURL    string
	search     config.Credentials
	shopping   config.Credentials
	httpClient *http.Client
}

// NewNaverClient creates a client. A nil httpClient uses a client with a
// 30 second timeout.
func NewNaverClient(cfg config.NaverConfig, httpClient *http.Client) *NaverClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &NaverClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		search:     cfg.Search,
		shopping:   cfg.Shopping,
		httpClient: httpClient,
	}
}

type naverError struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}

type shoppingResponse struct {
	Total   int                 `json:"total"`
	Start   int                 `json:"start"`
	Display int                 `json:"display"`
	Items   []models.RawListing `json:"items"`
}

// SearchShopping runs a shopping search and returns the raw items. An empty
// item list is not an error.
func (c *NaverClient) SearchShopping(ctx context.Context, q ShoppingQuery) ([]models.RawListing, error) {
	const op = "naver.SearchShopping"
	if !c.shopping.Valid() {
		return nil, apperr.Config(op, "Naver shopping credentials are not configured")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, apperr.Validation(op, "search query is empty")
	}
	display := q.Display
	if display <= 0 || display > MaxShoppingDisplay {
		display = MaxShoppingDisplay
	}

	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("display", strconv.Itoa(display))
	if q.Sort != "" {
		if !ShoppingSorts[q.Sort] {
			return nil, apperr.Validation(op, fmt.Sprintf("unknown sort %q", q.Sort))
		}
		params.Set("sort", q.Sort)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+shoppingPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperr.Transport(op, err)
	}
	setCredentials(req, c.shopping)

	var out shoppingResponse
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.RawListing{}
	}
	return out.Items, nil
}

type trendRequest struct {
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	TimeUnit      string                `json:"timeUnit"`
	KeywordGroups []models.KeywordGroup `json:"keywordGroups"`
}

type trendResponse struct {
	Results []struct {
		Title string `json:"title"`
		Data  []struct {
			Period string  `json:"period"`
			Ratio  float64 `json:"ratio"`
		} `json:"data"`
	} `json:"results"`
}

// SearchTrend fetches one interest series per keyword group.
func (c *NaverClient) SearchTrend(ctx context.Context, q TrendQuery) ([]models.TrendSeries, error) {
	const op = "naver.SearchTrend"
	if !c.search.Valid() {
		return nil, apperr.Config(op, "Naver search credentials are not configured")
	}
	if len(q.Groups) == 0 {
		return nil, apperr.Validation(op, "no keyword groups")
	}
	if !q.TimeUnit.Valid() {
		return nil, apperr.Validation(op, fmt.Sprintf("unknown time unit %q", q.TimeUnit))
	}
	if q.EndDate.Before(q.StartDate) {
		return nil, apperr.Validation(op, "end date is before start date")
	}

	body, err := json.Marshal(trendRequest{
		StartDate:     q.StartDate.Format("2006-01-02"),
		EndDate:       q.EndDate.Format("2006-01-02"),
		TimeUnit:      string(q.TimeUnit),
		KeywordGroups: q.Groups,
	})
	if err != nil {
		return nil, apperr.Transport(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+trendPath, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Transport(op, err)
	}
	setCredentials(req, c.search)
	req.Header.Set("Content-Type", "application/json")

	var out trendResponse
	if err := c.do(op, req, &out); err != nil {
		return nil, err
	}

	series := make([]models.TrendSeries, 0, len(out.Results))
	for _, r := range out.Results {
		s := models.TrendSeries{GroupName: r.Title, Points: make([]models.TrendPoint, 0, len(r.Data))}
		for _, d := range r.Data {
			period, err := time.Parse("2006-01-02", d.Period)
			if err != nil {
				return nil, apperr.Transport(op, fmt.Errorf("parse period %q: %w", d.Period, err))
			}
			s.Points = append(s.Points, models.TrendPoint{Period: period, Ratio: d.Ratio})
		}
		series = append(series, s)
	}
	return series, nil
}

func (c *NaverClient) do(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return apperr.Timeout(op, 1, err)
		}
		return apperr.Transport(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		var ne naverError
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if json.Unmarshal(data, &ne) == nil && ne.ErrorMessage != "" {
			msg = ne.ErrorMessage
			if ne.ErrorCode != "" {
				msg = ne.ErrorCode + ": " + msg
			}
		}
		return apperr.Provider(op, msg)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Transport(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func setCredentials(req *http.Request, creds config.Credentials) {
	req.Header.Set("X-Naver-Client-Id", creds.ClientID)
	req.Header.Set("X-Naver-Client-Secret", creds.ClientSecret)
}

// isTimeout reports whether err is a request timeout, either from the
// transport or from a context deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
