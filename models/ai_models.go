package models

// AnalysisRequest asks for a market analysis of one selection.
type AnalysisRequest struct {
	Category     string      `json:"category"`
	FlavorChoice string      `json:"flavorChoice"`
	FlavorCustom string      `json:"flavorCustom"`
	BrandChoice  string      `json:"brandChoice"`
	BrandCustom  string      `json:"brandCustom"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Granularity  Granularity `json:"granularity"`
}

// SectionState is the outcome of one section of an analysis. Sections fail
// independently of each other.
type SectionState string

const (
	StateOK               SectionState = "ok"
	StateEmpty            SectionState = "empty"
	StateError            SectionState = "error"
	StateInsufficientData SectionState = "insufficient_data"
	StateDisabled         SectionState = "disabled"
)

// TrendSection is the trend part of an analysis.
type TrendSection struct {
	State     SectionState   `json:"state"`
	Message   string         `json:"message,omitempty"`
	Summaries []TrendSummary `json:"summaries,omitempty"`
}

// ShoppingSection is the commerce part of an analysis.
type ShoppingSection struct {
	State       SectionState      `json:"state"`
	Message     string            `json:"message,omitempty"`
	Headline    *ShoppingHeadline `json:"headline,omitempty"`
	Summary     *MarketSummary    `json:"summary,omitempty"`
	BrandPrices []BrandPrice      `json:"brandPrices,omitempty"`
	Listings    []Listing         `json:"listings,omitempty"`
	ImageCards  []Listing         `json:"imageCards,omitempty"`
}

// MarketAnalysis is the full result of one analysis run.
type MarketAnalysis struct {
	Context  SearchContext   `json:"context"`
	Keyword  string          `json:"keyword"`
	Trend    TrendSection    `json:"trend"`
	Shopping ShoppingSection `json:"shopping"`
}

// StrategyReportRequest asks for a prose report over a finished analysis.
type StrategyReportRequest struct {
	Analysis AnalysisRequest `json:"analysis"`
}

// GeneratedReport is what the report endpoints return.
type GeneratedReport struct {
	ID       string `json:"id,omitempty"`
	Model    string `json:"model"`
	Body     string `json:"body"`
	Archived bool   `json:"archived"`
}
