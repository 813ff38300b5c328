package services

import (
	"context"
	"fmt"
	"time"

	"foodintel/analytics"
	"foodintel/apperr"
	"foodintel/cache"
	"foodintel/catalog"
	"foodintel/clients"
	"foodintel/config"
	"foodintel/logger"
	"foodintel/models"
	"foodintel/utils"
)

const (
	// maxImageCards is how many listings with an image are shown as cards.
	maxImageCards = 12

	defaultTrendStart = "2023-01-01"
)

// MarketDeps are the collaborators of a MarketService. Shopping and Trend may
// be nil when their credentials are not configured; the matching section is
// then reported as disabled.
type MarketDeps struct {
	Catalog   *catalog.Catalog
	Shopping  ShoppingSearcher
	Trend     TrendSearcher
	Cache     cache.Client
	CacheTTL  time.Duration
	Analytics config.AnalyticsConfig
	Logger    *logger.Logger
}

// MarketService runs market analyses.
type MarketService struct {
	catalog   *catalog.Catalog
	shopping  ShoppingSearcher
	trend     TrendSearcher
	cache     cache.Client
	cacheTTL  time.Duration
	analytics config.AnalyticsConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewMarketService creates a MarketService.
func NewMarketService(deps MarketDeps) *MarketService {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.MustDefault()
	}
	return &MarketService{
		catalog:   deps.Catalog,
		shopping:  deps.Shopping,
		trend:     deps.Trend,
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
		analytics: deps.Analytics,
		log:       deps.Logger.WithOperation("market"),
		now:       time.Now,
	}
}

// Catalog returns the beverage catalog the service resolves selections with.
func (s *MarketService) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *MarketService) thresholds() analytics.Thresholds {
	return analytics.Thresholds{A: s.analytics.Grades.A, B: s.analytics.Grades.B}
}

// Analyze resolves the selection and builds the trend and shopping sections.
// Only an invalid request is returned as an error; provider failures are
// reported in the state of the section they affect.
func (s *MarketService) Analyze(ctx context.Context, req models.AnalysisRequest) (models.MarketAnalysis, error) {
	const op = "market.Analyze"

	sc, err := s.catalog.Resolve(catalog.Selection{
		Category:     req.Category,
		FlavorChoice: req.FlavorChoice,
		FlavorCustom: req.FlavorCustom,
		BrandChoice:  req.BrandChoice,
		BrandCustom:  req.BrandCustom,
	})
	if err != nil {
		return models.MarketAnalysis{}, err
	}

	tq, err := s.trendQuery(sc, req)
	if err != nil {
		return models.MarketAnalysis{}, err
	}

	analysis := models.MarketAnalysis{
		Context: sc,
		Keyword: sc.SearchKeyword(),
	}
	analysis.Trend = s.trendSection(ctx, tq)
	analysis.Shopping = s.shoppingSection(ctx, sc, analysis.Keyword)

	s.log.Info().
		Str("keyword", analysis.Keyword).
		Str("trend", string(analysis.Trend.State)).
		Str("shopping", string(analysis.Shopping.State)).
		Msg(op + " finished")
	return analysis, nil
}

func (s *MarketService) trendQuery(sc models.SearchContext, req models.AnalysisRequest) (clients.TrendQuery, error) {
	const op = "market.Analyze"

	g := req.Granularity
	if g == "" {
		g = models.GranularityMonth
	}
	if !g.Valid() {
		return clients.TrendQuery{}, apperr.Validation(op, fmt.Sprintf("unknown granularity %q", g))
	}

	startRaw := req.StartDate
	if startRaw == "" {
		startRaw = defaultTrendStart
	}
	start, err := utils.ParseDate(startRaw)
	if err != nil {
		return clients.TrendQuery{}, apperr.Validation(op, fmt.Sprintf("invalid startDate %q", req.StartDate))
	}

	// Trend periods are whole days.
	y, m, d := s.now().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if req.EndDate != "" {
		if end, err = utils.ParseDate(req.EndDate); err != nil {
			return clients.TrendQuery{}, apperr.Validation(op, fmt.Sprintf("invalid endDate %q", req.EndDate))
		}
	}
	if end.Before(start) {
		return clients.TrendQuery{}, apperr.Validation(op, "endDate is before startDate")
	}

	return clients.TrendQuery{
		StartDate: start,
		EndDate:   end,
		TimeUnit:  g,
		Groups:    s.catalog.KeywordGroups(sc),
	}, nil
}

func (s *MarketService) trendSection(ctx context.Context, q clients.TrendQuery) models.TrendSection {
	if s.trend == nil {
		return models.TrendSection{State: models.StateDisabled, Message: "trend provider is not configured"}
	}

	series, err := cached(ctx, s.cache, s.cacheTTL, s.log, "trend", q, func() ([]models.TrendSeries, error) {
		return s.trend.SearchTrend(ctx, q)
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("trend fetch failed")
		state, msg := sectionState(err)
		return models.TrendSection{State: state, Message: msg}
	}

	summaries, err := analytics.SummarizeTrends(series, q.TimeUnit, analytics.TrendOptions{RecentWindow: s.analytics.RecentWindow})
	if err != nil {
		state, msg := sectionState(err)
		return models.TrendSection{State: state, Message: msg}
	}

	points := 0
	for _, sum := range summaries {
		points += len(sum.Points)
	}
	if points == 0 {
		return models.TrendSection{State: models.StateEmpty, Message: "no trend data for the selected period", Summaries: summaries}
	}
	return models.TrendSection{State: models.StateOK, Summaries: summaries}
}

func (s *MarketService) shoppingSection(ctx context.Context, sc models.SearchContext, keyword string) models.ShoppingSection {
	if s.shopping == nil {
		return models.ShoppingSection{State: models.StateDisabled, Message: "commerce search is not configured"}
	}

	q := clients.ShoppingQuery{Query: keyword, Display: clients.MaxShoppingDisplay}
	raw, err := cached(ctx, s.cache, s.cacheTTL, s.log, "shopping", q, func() ([]models.RawListing, error) {
		return s.shopping.SearchShopping(ctx, q)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("keyword", keyword).Msg("shopping search failed")
		state, msg := sectionState(err)
		return models.ShoppingSection{State: state, Message: msg}
	}

	listings := analytics.NormalizeListings(raw, analytics.NormalizeOptions{})
	if len(listings) == 0 {
		return models.ShoppingSection{State: models.StateEmpty, Message: "no shopping results"}
	}

	section := models.ShoppingSection{
		State:      models.StateOK,
		Listings:   listings,
		ImageCards: imageCards(listings, maxImageCards),
	}

	summary, err := analytics.ComputeMarketSummary(listings, s.thresholds())
	if err != nil {
		section.State, section.Message = sectionState(err)
		return section
	}
	section.Summary = &summary

	if headline, err := analytics.Headline(listings, sc.StandardVolumeML, s.analytics.BundleDivisor); err == nil {
		section.Headline = &headline
	}
	section.BrandPrices = analytics.BrandPriceTable(listings, s.analytics.BundleDivisor)
	return section
}

func imageCards(listings []models.Listing, limit int) []models.Listing {
	cards := make([]models.Listing, 0, limit)
	for _, l := range listings {
		if l.Image == "" {
			continue
		}
		cards = append(cards, l)
		if len(cards) == limit {
			break
		}
	}
	return cards
}
