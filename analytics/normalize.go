// Package analytics turns raw provider data into listings, trend summaries
// and derived market metrics. Everything here is a pure function of its
// input.
package analytics

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"foodintel/models"
)

// FoodCategory is the top-level commerce category kept by the shopping
// collection.
const FoodCategory = "식품"

var titlePolicy = bluemonday.StrictPolicy()

// SanitizeTitle strips highlight markup such as <b>..</b> from a provider
// title and returns plain display text.
func SanitizeTitle(raw string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(raw)))
}

// ParsePrice coerces a provider price to a number. Anything that is not a
// finite number yields nil.
func ParsePrice(raw string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NormalizeOptions controls NormalizeListings.
type NormalizeOptions struct {
	// Category keeps only listings whose top-level category equals it.
	// Empty keeps everything.
	Category string
}

// NormalizeListings converts raw commerce results to listings.
func NormalizeListings(raw []models.RawListing, opts NormalizeOptions) []models.Listing {
	listings := make([]models.Listing, 0, len(raw))
	for _, r := range raw {
		category := strings.TrimSpace(r.Category1)
		if opts.Category != "" && category != opts.Category {
			continue
		}
		listings = append(listings, models.Listing{
			Title:       SanitizeTitle(r.Title),
			Price:       ParsePrice(r.LPrice),
			Brand:       strings.TrimSpace(r.Brand),
			Store:       strings.TrimSpace(r.MallName),
			Category:    category,
			SubCategory: strings.TrimSpace(r.Category2),
			ProductID:   r.ProductID,
			Image:       r.Image,
			Link:        r.Link,
		})
	}
	return listings
}

// Prices returns the non-null prices of listings, in order.
func Prices(listings []models.Listing) []float64 {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l.Price != nil {
			prices = append(prices, *l.Price)
		}
	}
	return prices
}
