package models

// RawListing is one item of a commerce search response, as the provider
// sends it.
type RawListing struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Image     string `json:"image"`
	LPrice    string `json:"lprice"`
	HPrice    string `json:"hprice"`
	MallName  string `json:"mallName"`
	ProductID string `json:"productId"`
	Brand     string `json:"brand"`
	Maker     string `json:"maker"`
	Category1 string `json:"category1"`
	Category2 string `json:"category2"`
	Category3 string `json:"category3"`
	Category4 string `json:"category4"`
}

// Listing is one normalized commerce search result. Price is nil when the
// provider value was missing or not numeric.
type Listing struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Brand       string   `json:"brand"`
	Store       string   `json:"store"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory,omitempty"`
	ProductID   string   `json:"productId,omitempty"`
	Image       string   `json:"image,omitempty"`
	Link        string   `json:"link,omitempty"`
}

// PricePosition labels a listing against the median price.
type PricePosition string

const (
	PositionPremium PricePosition = "premium"
	PositionValue   PricePosition = "value"
	// PositionUnlabeled is used for listings without a price.
	PositionUnlabeled PricePosition = ""
)

// Grade is the coarse bucketing of the opportunity score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// BrandShare is the share of branded listings attributed to one brand.
type BrandShare struct {
	Brand string  `json:"brand"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// MarketSummary is derived from the listings of one search context.
type MarketSummary struct {
	ListingCount     int             `json:"listingCount"`
	PricedCount      int             `json:"pricedCount"`
	BrandShares      []BrandShare    `json:"brandShares"`
	TopBrand         string          `json:"topBrand"`
	TopBrandShare    float64         `json:"topBrandShare"`
	DominanceIndex   float64         `json:"dominanceIndex"`
	AveragePrice     float64         `json:"averagePrice"`
	MedianPrice      float64         `json:"medianPrice"`
	MinPrice         float64         `json:"minPrice"`
	PricePositions   []PricePosition `json:"pricePositions"`
	OpportunityScore float64         `json:"opportunityScore"`
	StrategyGrade    Grade           `json:"strategyGrade"`
}

// Share returns the share of brand, or 0 when it has none.
func (m MarketSummary) Share(brand string) float64 {
	for _, bs := range m.BrandShares {
		if bs.Brand == brand {
			return bs.Share
		}
	}
	return 0
}

// BrandPrice is one row of the per-brand price table.
type BrandPrice struct {
	Brand        string  `json:"brand"`
	Count        int     `json:"count"`
	MeanPrice    float64 `json:"meanPrice"`
	StdDev       float64 `json:"stdDev"`
	PerUnitPrice float64 `json:"perUnitPrice"`
}

// ShoppingHeadline is the row of headline numbers shown above the listings.
type ShoppingHeadline struct {
	AveragePrice    float64  `json:"averagePrice"`
	MinPrice        float64  `json:"minPrice"`
	PerUnitEstimate float64  `json:"perUnitEstimate"`
	PricePer100ML   *float64 `json:"pricePer100ml,omitempty"`
	ListingCount    int      `json:"listingCount"`
}

// CollectedRow is one row of the shopping collection table.
type CollectedRow struct {
	Title       string `json:"title"`
	SubCategory string `json:"subCategory"`
	Price       int64  `json:"price"`
	Store       string `json:"store"`
	ProductID   string `json:"productId"`
}
