package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"foodintel/analytics"
	"foodintel/apperr"
	"foodintel/clients"
	"foodintel/models"
)

// CollectDisplays are the page sizes offered for a collection run.
var CollectDisplays = []int{10, 20, 50, 100}

// CollectRequest is one shopping collection run.
type CollectRequest struct {
	Keyword string `json:"keyword"`
	Display int    `json:"display"`
	Sort    string `json:"sort"`
}

// ShoppingService collects food listings from the commerce search.
type ShoppingService struct {
	searcher ShoppingSearcher
}

// NewShoppingService creates a ShoppingService. A nil searcher makes every
// call fail with a configuration error.
func NewShoppingService(searcher ShoppingSearcher) *ShoppingService {
	return &ShoppingService{searcher: searcher}
}

// Collect searches and keeps only listings in the food category. A missing
// price is collected as 0.
func (s *ShoppingService) Collect(ctx context.Context, req CollectRequest) ([]models.CollectedRow, error) {
	const op = "shopping.Collect"
	if s.searcher == nil {
		return nil, apperr.Config(op, "commerce search is not configured")
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, apperr.Validation(op, "enter a search keyword")
	}
	display := req.Display
	if display == 0 {
		display = 20
	}
	if !slices.Contains(CollectDisplays, display) {
		return nil, apperr.Validation(op, fmt.Sprintf("display must be one of %v", CollectDisplays))
	}
	sort := req.Sort
	if sort == "" {
		sort = "sim"
	}

	raw, err := s.searcher.SearchShopping(ctx, clients.ShoppingQuery{Query: keyword, Display: display, Sort: sort})
	if err != nil {
		return nil, err
	}

	listings := analytics.NormalizeListings(raw, analytics.NormalizeOptions{Category: analytics.FoodCategory})
	if len(listings) == 0 {
		return nil, apperr.Empty(op, "no listings in the food category")
	}

	rows := make([]models.CollectedRow, 0, len(listings))
	for _, l := range listings {
		var price int64
		if l.Price != nil {
			price = int64(math.Round(*l.Price))
		}
		rows = append(rows, models.CollectedRow{
			Title:       l.Title,
			SubCategory: l.SubCategory,
			Price:       price,
			Store:       l.Store,
			ProductID:   l.ProductID,
		})
	}
	return rows, nil
}

var collectHeader = []string{"상품명", "카테고리", "최저가", "판매처", "상품ID"}

// CollectedCSV renders collected rows as CSV with a UTF-8 byte order mark so
// spreadsheet tools detect the encoding.
func CollectedCSV(rows []models.CollectedRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	if err := w.Write(collectHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{r.Title, r.SubCategory, strconv.FormatInt(r.Price, 10), r.Store, r.ProductID}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
