package analytics

import (
	"sort"
	"strings"

	"foodintel/apperr"
	"foodintel/models"
)

const (
	// Applied to the opportunity score whenever the average price is not
	// strictly below the median.
	aboveMedianPenalty = 0.8
)

// Thresholds are the inclusive lower bounds of grades A and B.
type Thresholds struct {
	A float64
	B float64
}

// DefaultThresholds is the 50/30 variant.
var DefaultThresholds = Thresholds{A: 50, B: 30}

// GradeFor buckets an opportunity score.
func GradeFor(score float64, th Thresholds) models.Grade {
	switch {
	case score >= th.A:
		return models.GradeA
	case score >= th.B:
		return models.GradeB
	default:
		return models.GradeC
	}
}

// BrandShares counts listings per non-empty brand and converts the counts to
// percentages of the branded total. The result is ordered by count,
// descending; equal counts keep first-seen order.
func BrandShares(listings []models.Listing) []models.BrandShare {
	counts := make(map[string]int)
	var order []string
	branded := 0
	for _, l := range listings {
		b := strings.TrimSpace(l.Brand)
		if b == "" {
			continue
		}
		if _, ok := counts[b]; !ok {
			order = append(order, b)
		}
		counts[b]++
		branded++
	}

	shares := make([]models.BrandShare, 0, len(order))
	for _, b := range order {
		shares = append(shares, models.BrandShare{
			Brand: b,
			Count: counts[b],
			Share: float64(counts[b]) / float64(branded) * 100,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	return shares
}

// PricePositions labels every listing against median: strictly above is
// premium, anything else priced is value, unpriced listings are unlabeled.
func PricePositions(listings []models.Listing, median float64) []models.PricePosition {
	positions := make([]models.PricePosition, len(listings))
	for i, l := range listings {
		switch {
		case l.Price == nil:
			positions[i] = models.PositionUnlabeled
		case *l.Price > median:
			positions[i] = models.PositionPremium
		default:
			positions[i] = models.PositionValue
		}
	}
	return positions
}

// OpportunityScore is (100 - top brand share), penalised when the average
// price is not strictly below the median.
func OpportunityScore(topShare, average, median float64) float64 {
	multiplier := aboveMedianPenalty
	if average < median {
		multiplier = 1.0
	}
	return (100 - topShare) * multiplier
}

// ComputeMarketSummary derives the market summary of a set of listings.
//
// Listings without a price count towards the listing total (and so the
// dominance index) but not the price statistics. Listings without a brand
// are left out of the brand share denominator. The dominance index
// multiplies the top share by the full listing count, unbranded rows
// included.
func ComputeMarketSummary(listings []models.Listing, th Thresholds) (models.MarketSummary, error) {
	const op = "analytics.ComputeMarketSummary"
	if len(listings) == 0 {
		return models.MarketSummary{}, apperr.InsufficientData(op, "no listings to analyse")
	}
	prices := Prices(listings)
	if len(prices) == 0 {
		return models.MarketSummary{}, apperr.InsufficientData(op, "no listing has a usable price")
	}

	shares := BrandShares(listings)
	var topBrand string
	var topShare float64
	if len(shares) > 0 {
		topBrand, topShare = shares[0].Brand, shares[0].Share
	}

	average := Mean(prices)
	median := Median(prices)
	score := OpportunityScore(topShare, average, median)

	return models.MarketSummary{
		ListingCount:     len(listings),
		PricedCount:      len(prices),
		BrandShares:      shares,
		TopBrand:         topBrand,
		TopBrandShare:    topShare,
		DominanceIndex:   topShare * float64(len(listings)),
		AveragePrice:     average,
		MedianPrice:      median,
		MinPrice:         Min(prices),
		PricePositions:   PricePositions(listings, median),
		OpportunityScore: score,
		StrategyGrade:    GradeFor(score, th),
	}, nil
}
