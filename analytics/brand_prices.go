package analytics

import (
	"sort"

	"foodintel/apperr"
	"foodintel/models"
)

// BrandPriceTable groups priced listings by brand (the empty brand is its
// own group) and reports count, mean, sample standard deviation and the
// estimated per-unit price (mean / divisor). Rows are ordered by mean price,
// descending.
func BrandPriceTable(listings []models.Listing, divisor float64) []models.BrandPrice {
	byBrand := make(map[string][]float64)
	var order []string
	for _, l := range listings {
		if l.Price == nil {
			continue
		}
		if _, ok := byBrand[l.Brand]; !ok {
			order = append(order, l.Brand)
		}
		byBrand[l.Brand] = append(byBrand[l.Brand], *l.Price)
	}

	rows := make([]models.BrandPrice, 0, len(order))
	for _, b := range order {
		prices := byBrand[b]
		mean := Mean(prices)
		rows = append(rows, models.BrandPrice{
			Brand:        b,
			Count:        len(prices),
			MeanPrice:    mean,
			StdDev:       SampleStdDev(prices),
			PerUnitPrice: perUnit(mean, divisor),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MeanPrice > rows[j].MeanPrice
	})
	return rows
}

// Headline computes the headline shopping numbers. volumeML is the standard
// container volume of the category; zero leaves the per-100mL price out.
func Headline(listings []models.Listing, volumeML, divisor float64) (models.ShoppingHeadline, error) {
	prices := Prices(listings)
	if len(prices) == 0 {
		return models.ShoppingHeadline{}, apperr.InsufficientData("analytics.Headline", "no listing has a usable price")
	}
	h := models.ShoppingHeadline{
		AveragePrice:    Mean(prices),
		MinPrice:        Min(prices),
		PerUnitEstimate: perUnit(Median(prices), divisor),
		ListingCount:    len(listings),
	}
	if volumeML > 0 {
		per100 := h.PerUnitEstimate / volumeML * 100
		h.PricePer100ML = &per100
	}
	return h, nil
}

func perUnit(price, divisor float64) float64 {
	if divisor <= 0 {
		return price
	}
	return price / divisor
}
