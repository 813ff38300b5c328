package utils

import (
	"math"
	"time"
)

// Pagination represents the pagination details.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// CreatePagination creates a Pagination object.
func CreatePagination(totalItems, page, pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = 10 // Default page size
	}
	if page <= 0 {
		page = 1 // Default page
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	return &Pagination{
		TotalItems:  totalItems,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	}
}

// PageBounds returns the [start, end) slice bounds of the current page.
// Pages past the end yield an empty range.
func (p *Pagination) PageBounds() (start, end int) {
	start = (p.CurrentPage - 1) * p.PageSize
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end = start + p.PageSize
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}

var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// ParseDate tries the accepted date formats in order.
func ParseDate(dateStr string) (time.Time, error) {
	var lastErr error
	for _, format := range dateFormats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
