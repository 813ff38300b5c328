package analytics

import (
	"fmt"
	"sort"

	"foodintel/apperr"
	"foodintel/models"
)

const (
	yoyLag        = 12
	recentSamples = 3
)

// TrendOptions controls SummarizeTrends.
type TrendOptions struct {
	// RecentWindow is the number of trailing monthly samples the recent
	// growth is measured over.
	RecentWindow int
}

// NormalizeSeries orders points by period and drops repeated periods,
// keeping the last sample seen for a period. The result is strictly
// increasing in period.
func NormalizeSeries(s models.TrendSeries) models.TrendSeries {
	points := make([]models.TrendPoint, len(s.Points))
	copy(points, s.Points)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Period.Equal(p.Period) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return models.TrendSeries{GroupName: s.GroupName, Points: out}
}

// RecentGrowth is the percent change from the first to the last sample of
// the trailing window of n monthly samples.
func RecentGrowth(points []models.TrendPoint, g models.Granularity, n int) models.Derived {
	if g != models.GranularityMonth {
		return models.Undefined("recent growth needs monthly data")
	}
	if n < 2 {
		return models.Undefined(fmt.Sprintf("window of %d samples is too short", n))
	}
	if len(points) < n {
		return models.Undefined(fmt.Sprintf("need %d monthly samples, have %d", n, len(points)))
	}
	first := points[len(points)-n].Ratio
	last := points[len(points)-1].Ratio
	if first == 0 {
		return models.Undefined("first sample of the window is zero")
	}
	return models.DefinedValue((last - first) / first * 100)
}

// YearOverYear returns one entry per point with the percent change against
// the sample twelve positions earlier. It returns nil unless the series is
// monthly with at least 13 samples; the first twelve entries are always
// undefined.
func YearOverYear(points []models.TrendPoint, g models.Granularity) []models.YoYPoint {
	if g != models.GranularityMonth || len(points) <= yoyLag {
		return nil
	}
	out := make([]models.YoYPoint, len(points))
	for i, p := range points {
		out[i].Period = p.Period
		if i < yoyLag {
			out[i].Change = models.Undefined("no sample twelve months earlier")
			continue
		}
		base := points[i-yoyLag].Ratio
		if base == 0 {
			out[i].Change = models.Undefined("sample twelve months earlier is zero")
			continue
		}
		out[i].Change = models.DefinedValue((p.Ratio - base) / base * 100)
	}
	return out
}

// Seasonality averages monthly samples per calendar month across years.
// partial is true when fewer than twelve distinct months are covered.
func Seasonality(points []models.TrendPoint, g models.Granularity) (months []models.MonthAverage, partial bool) {
	if g != models.GranularityMonth || len(points) == 0 {
		return nil, false
	}
	var sums [13]float64
	var counts [13]int
	for _, p := range points {
		m := int(p.Period.Month())
		sums[m] += p.Ratio
		counts[m]++
	}
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		months = append(months, models.MonthAverage{
			Month:   m,
			Average: sums[m] / float64(counts[m]),
			Samples: counts[m],
		})
	}
	return months, len(months) < 12
}

// SummarizeTrends normalizes every series and attaches whichever derived
// values are defined for the granularity.
func SummarizeTrends(series []models.TrendSeries, g models.Granularity, opts TrendOptions) ([]models.TrendSummary, error) {
	if !g.Valid() {
		return nil, apperr.Validation("analytics.SummarizeTrends", fmt.Sprintf("unknown granularity %q", g))
	}
	window := opts.RecentWindow
	if window == 0 {
		window = recentSamples
	}

	summaries := make([]models.TrendSummary, 0, len(series))
	for _, s := range series {
		norm := NormalizeSeries(s)
		sum := models.TrendSummary{
			GroupName:   norm.GroupName,
			Granularity: g,
			Points:      norm.Points,
			Recent:      tailRatios(norm.Points, window),
		}

		sum.RecentGrowth = RecentGrowth(norm.Points, g, window)
		if !sum.RecentGrowth.Defined {
			sum.Warnings = append(sum.Warnings, "recent growth: "+sum.RecentGrowth.Reason)
		}

		if g == models.GranularityMonth {
			sum.YearOverYear = YearOverYear(norm.Points, g)
			if sum.YearOverYear == nil {
				sum.Warnings = append(sum.Warnings,
					fmt.Sprintf("year-over-year: need at least %d monthly samples, have %d", yoyLag+1, len(norm.Points)))
			}
			sum.Seasonality, sum.SeasonalityPartial = Seasonality(norm.Points, g)
			if sum.SeasonalityPartial {
				sum.Warnings = append(sum.Warnings, "seasonality: data covers less than a full year")
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func tailRatios(points []models.TrendPoint, n int) []float64 {
	if len(points) < n {
		n = len(points)
	}
	out := make([]float64, 0, n)
	for _, p := range points[len(points)-n:] {
		out = append(out, p.Ratio)
	}
	return out
}
