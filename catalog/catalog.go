// Package catalog holds the beverage categories, recommended flavors and
// brands, and the keyword groups sent to the trend provider.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"foodintel/apperr"
	"foodintel/models"
)

//go:embed beverages.yaml
var defaultCatalog []byte

// NoneChoice is the selector entry meaning "no flavor/brand".
const NoneChoice = "없음"

// Category is one beverage category.
type Category struct {
	Name             string   `yaml:"name" json:"name"`
	Flavors          []string `yaml:"flavors" json:"flavors"`
	Brands           []string `yaml:"brands" json:"brands"`
	TrendKeywords    []string `yaml:"trend_keywords" json:"trendKeywords"`
	StandardVolumeML float64  `yaml:"standard_volume_ml" json:"standardVolumeMl"`
}

// Catalog is an ordered set of categories.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package initialisation.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("parse catalog: no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("parse catalog: category without a name")
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("parse catalog: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
	}
	return &c, nil
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Lookup finds a category by name.
func (c *Catalog) Lookup(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Selection is what the user picked in the category/flavor/brand selectors.
// A non-blank custom entry overrides the matching choice.
type Selection struct {
	Category     string `json:"category"`
	FlavorChoice string `json:"flavorChoice"`
	FlavorCustom string `json:"flavorCustom"`
	BrandChoice  string `json:"brandChoice"`
	BrandCustom  string `json:"brandCustom"`
}

// Resolve turns a selection into a search context. At least one of flavor or
// brand must end up set.
func (c *Catalog) Resolve(sel Selection) (models.SearchContext, error) {
	cat, ok := c.Lookup(sel.Category)
	if !ok {
		return models.SearchContext{}, apperr.Validation("catalog.Resolve", fmt.Sprintf("unknown category %q", sel.Category))
	}

	ctx := models.SearchContext{
		Category:         cat.Name,
		Flavor:           pick(sel.FlavorChoice, sel.FlavorCustom),
		Brand:            pick(sel.BrandChoice, sel.BrandCustom),
		StandardVolumeML: cat.StandardVolumeML,
	}
	if ctx.Flavor == "" && ctx.Brand == "" {
		return ctx, apperr.Validation("catalog.Resolve", "select or enter at least one flavor or brand")
	}
	return ctx, nil
}

func pick(choice, custom string) string {
	if v := strings.TrimSpace(custom); v != "" {
		return v
	}
	choice = strings.TrimSpace(choice)
	if choice == NoneChoice {
		return ""
	}
	return choice
}

// KeywordGroups builds the trend keyword groups for a search context: brand,
// flavor, then the category's own keyword list.
func (c *Catalog) KeywordGroups(ctx models.SearchContext) []models.KeywordGroup {
	var groups []models.KeywordGroup
	if ctx.Brand != "" {
		groups = append(groups, models.KeywordGroup{GroupName: ctx.Brand, Keywords: []string{ctx.Brand}})
	}
	if ctx.Flavor != "" {
		groups = append(groups, models.KeywordGroup{GroupName: ctx.Flavor, Keywords: []string{ctx.Flavor}})
	}
	if cat, ok := c.Lookup(ctx.Category); ok && len(cat.TrendKeywords) > 0 {
		kw := make([]string, len(cat.TrendKeywords))
		copy(kw, cat.TrendKeywords)
		groups = append(groups, models.KeywordGroup{GroupName: cat.Name, Keywords: kw})
	}
	return groups
}
