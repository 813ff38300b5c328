package models

import "time"

// Granularity is the period bucket of a trend series.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDate  Granularity = "date"
)

// Valid reports whether g is one of the provider's period units.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityMonth, GranularityWeek, GranularityDate:
		return true
	}
	return false
}

// TrendPoint is one interest sample. Ratio is on the provider's relative
// scale, usually 0-100 but not bounded.
type TrendPoint struct {
	Period time.Time `json:"period"`
	Ratio  float64   `json:"ratio"`
}

// TrendSeries is the ordered samples of one keyword group.
type TrendSeries struct {
	GroupName string       `json:"groupName"`
	Points    []TrendPoint `json:"points"`
}

// Derived is a computed value that may be undefined. When Defined is false
// Reason says why and Value is zero.
type Derived struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Reason  string  `json:"reason,omitempty"`
}

// DefinedValue returns a defined Derived.
func DefinedValue(v float64) Derived {
	return Derived{Value: v, Defined: true}
}

// Undefined returns an undefined Derived with a reason.
func Undefined(reason string) Derived {
	return Derived{Reason: reason}
}

// YoYPoint is the year-over-year change of one monthly sample.
type YoYPoint struct {
	Period time.Time `json:"period"`
	Change Derived   `json:"change"`
}

// MonthAverage is the mean ratio of one calendar month across years.
type MonthAverage struct {
	Month   int     `json:"month"`
	Average float64 `json:"average"`
	Samples int     `json:"samples"`
}

// TrendSummary is the per-group output of the trend aggregator.
type TrendSummary struct {
	GroupName          string         `json:"groupName"`
	Granularity        Granularity    `json:"granularity"`
	Points             []TrendPoint   `json:"points"`
	Recent             []float64      `json:"recent"`
	RecentGrowth       Derived        `json:"recentGrowth"`
	YearOverYear       []YoYPoint     `json:"yearOverYear,omitempty"`
	Seasonality        []MonthAverage `json:"seasonality,omitempty"`
	SeasonalityPartial bool           `json:"seasonalityPartial,omitempty"`
	Warnings           []string       `json:"warnings,omitempty"`
}
