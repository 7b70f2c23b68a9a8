package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode enumerates the supported display orderings.
type SortMode string

const (
	// SortDefault keeps the source order.
	SortDefault SortMode = "default"
	// SortPriceLow orders by ascending discounted price.
	SortPriceLow SortMode = "price-low"
	// SortPriceHigh orders by descending discounted price.
	SortPriceHigh SortMode = "price-high"
	// SortRatingHigh orders by descending rating.
	SortRatingHigh SortMode = "rating-high"
	// SortTitleAsc orders by ascending title, locale-aware.
	SortTitleAsc SortMode = "name-asc"
	// SortTitleDesc orders by descending title, locale-aware.
	SortTitleDesc SortMode = "name-desc"
)

// Default price range bounds.
var (
	DefaultPriceMin = decimal.Zero
	DefaultPriceMax = decimal.NewFromInt(2000)
)

// FilterConfig holds the transient filter, sort, and search configuration for
// the product display list. It is never persisted.
type FilterConfig struct {
	// Query is the current search text. It selects the source collection
	// (external search results or the full local catalog) before the pipeline
	// runs; Apply itself never reads it. See the search package.
	Query     string
	PriceMin  decimal.Decimal
	PriceMax  decimal.Decimal
	MinRating float64
	Sort      SortMode
	Tags      map[string]struct{}
}

// DefaultFilterConfig returns the configuration applied before the user
// touches any control.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		Sort:     SortDefault,
		Tags:     make(map[string]struct{}),
	}
}

// Reset restores all filters and the sort mode to their defaults. The search
// query is left untouched; clearing it is a separate user action.
func (c *FilterConfig) Reset() {
	q := c.Query
	*c = DefaultFilterConfig()
	c.Query = q
}

// ToggleTag adds the tag to the selected set, or removes it when already
// selected.
func (c *FilterConfig) ToggleTag(tag string) {
	if c.Tags == nil {
		c.Tags = make(map[string]struct{})
	}
	if _, ok := c.Tags[tag]; ok {
		delete(c.Tags, tag)
		return
	}
	c.Tags[tag] = struct{}{}
}

// Apply runs the pure filter pipeline over products and returns the display
// list. Stages run in fixed order: price range (inclusive), minimum rating,
// tag OR-filter, then a stable sort. The input slice is never modified.
//
// Source selection by cfg.Query happens before Apply: the caller resolves the
// query into a product collection (see the search package) and passes the
// result here.
func Apply(products []Product, cfg FilterConfig) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.DiscountedPrice.LessThan(cfg.PriceMin) || p.DiscountedPrice.GreaterThan(cfg.PriceMax) {
			continue
		}
		if p.Rating < cfg.MinRating {
			continue
		}
		if len(cfg.Tags) > 0 && !hasAnyTag(p, cfg.Tags) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, cfg.Sort)
	return out
}

func hasAnyTag(p Product, selected map[string]struct{}) bool {
	for _, tag := range p.Tags {
		if _, ok := selected[tag]; ok {
			return true
		}
	}
	return false
}

// sortProducts orders the slice in place. Sorts are stable: products with
// equal keys keep their relative source order.
func sortProducts(products []Product, mode SortMode) {
	switch mode {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].DiscountedPrice.LessThan(products[j].DiscountedPrice)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].DiscountedPrice.GreaterThan(products[j].DiscountedPrice)
		})
	case SortRatingHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	case SortTitleAsc:
		cl := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return cl.CompareString(products[i].Title, products[j].Title) < 0
		})
	case SortTitleDesc:
		cl := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return cl.CompareString(products[i].Title, products[j].Title) > 0
		})
	default:
		// Source order.
	}
}

// MatchTitle returns the products whose title contains the query,
// case-insensitively. It is the local fallback used when the external search
// endpoint is unavailable.
func MatchTitle(products []Product, query string) []Product {
	q := strings.ToLower(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// AvailableTags returns the sorted set of unique tags across products. It
// feeds the tag filter controls.
func AvailableTags(products []Product) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range products {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
