package services

import (
	"context"
	"strings"

	"foodintel/apperr"
	"foodintel/models"
	"foodintel/utils"
)

// RegistrySearch is a registry query plus the display-side filter and page.
type RegistrySearch struct {
	models.RegistryQuery
	Filter   string `json:"filter"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// RegistryPage is one display page of registry records.
type RegistryPage struct {
	Data       []models.RegistryRecord `json:"data"`
	Pagination *utils.Pagination       `json:"pagination"`
	Fetched    int                     `json:"fetched"`
	TotalCount int                     `json:"totalCount"`
}

// RegistryService searches the product registry.
type RegistryService struct {
	fetcher RegistryFetcher
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(fetcher RegistryFetcher) *RegistryService {
	return &RegistryService{fetcher: fetcher}
}

// Search fetches the requested record range, filters it, and returns one
// page of the filtered records.
func (s *RegistryService) Search(ctx context.Context, req RegistrySearch) (RegistryPage, error) {
	if s.fetcher == nil {
		return RegistryPage{}, apperr.Config("registry.Search", "food-safety registry key is not configured")
	}

	res, err := s.fetcher.Fetch(ctx, req.RegistryQuery)
	if err != nil {
		return RegistryPage{}, err
	}

	filtered := FilterRecords(res.Records, req.Filter)
	pagination := utils.CreatePagination(len(filtered), req.Page, req.PageSize)
	start, end := pagination.PageBounds()

	return RegistryPage{
		Data:       filtered[start:end],
		Pagination: pagination,
		Fetched:    len(res.Records),
		TotalCount: res.TotalCount,
	}, nil
}

// FilterRecords keeps records whose business name, product name or product
// type contains text, ignoring case. Blank text keeps everything.
func FilterRecords(records []models.RegistryRecord, text string) []models.RegistryRecord {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return records
	}
	out := make([]models.RegistryRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.BusinessName), text) ||
			strings.Contains(strings.ToLower(r.ProductName), text) ||
			strings.Contains(strings.ToLower(r.ProductType), text) {
			out = append(out, r)
		}
	}
	return out
}
