package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func p(id, title string, discounted string, rating float64, tags ...string) Product {
	return Product{
		ID:              id,
		Title:           title,
		Price:           d(discounted).Add(d("25")),
		DiscountedPrice: d(discounted),
		Rating:          rating,
		Tags:            tags,
	}
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, pr := range products {
		out[i] = pr.ID
	}
	return out
}

func TestApply_PriceRangeInclusive(t *testing.T) {
	products := []Product{
		p("low", "Low", "9.99", 3),
		p("min", "Min", "10", 3),
		p("mid", "Mid", "50", 3),
		p("max", "Max", "100", 3),
		p("high", "High", "100.01", 3),
	}

	cfg := DefaultFilterConfig()
	cfg.PriceMin = d("10")
	cfg.PriceMax = d("100")

	got := Apply(products, cfg)

	assert.Equal(t, []string{"min", "mid", "max"}, ids(got))
	for _, pr := range got {
		assert.True(t, pr.DiscountedPrice.GreaterThanOrEqual(cfg.PriceMin))
		assert.True(t, pr.DiscountedPrice.LessThanOrEqual(cfg.PriceMax))
	}
}

func TestApply_MinRating(t *testing.T) {
	products := []Product{
		p("a", "A", "10", 2.5),
		p("b", "B", "10", 4),
		p("c", "C", "10", 4.5),
	}

	cfg := DefaultFilterConfig()
	cfg.MinRating = 4

	assert.Equal(t, []string{"b", "c"}, ids(Apply(products, cfg)))
}

func TestApply_TagFilterIsOrAcrossSelected(t *testing.T) {
	products := []Product{
		p("a", "A", "10", 3, "shoes"),
		p("b", "B", "10", 3, "bags", "leather"),
		p("c", "C", "10", 3, "watches"),
		p("d", "D", "10", 3),
	}

	cfg := DefaultFilterConfig()
	cfg.ToggleTag("shoes")
	cfg.ToggleTag("leather")

	assert.Equal(t, []string{"a", "b"}, ids(Apply(products, cfg)))

	// No tags selected: stage is skipped entirely.
	cfg.ToggleTag("shoes")
	cfg.ToggleTag("leather")
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Apply(products, cfg)))
}

func TestApply_SortModes(t *testing.T) {
	products := []Product{
		p("a", "Citrine Ring", "100", 4),
		p("b", "Amber Clutch", "50", 5),
		p("c", "Basalt Watch", "75", 3),
	}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"default keeps source order", SortDefault, []string{"a", "b", "c"}},
		{"price low", SortPriceLow, []string{"b", "c", "a"}},
		{"price high", SortPriceHigh, []string{"a", "c", "b"}},
		{"rating high", SortRatingHigh, []string{"b", "a", "c"}},
		{"title asc", SortTitleAsc, []string{"b", "c", "a"}},
		{"title desc", SortTitleDesc, []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFilterConfig()
			cfg.Sort = tt.mode
			assert.Equal(t, tt.want, ids(Apply(products, cfg)))
		})
	}
}

// TestApply_SortStability checks that products with equal sort keys keep
// their relative source order.
func TestApply_SortStability(t *testing.T) {
	products := []Product{
		p("first", "First", "50", 4),
		p("second", "Second", "50", 4),
		p("third", "Third", "50", 4),
		p("cheap", "Cheap", "10", 4),
	}

	cfg := DefaultFilterConfig()
	cfg.Sort = SortPriceLow

	assert.Equal(t, []string{"cheap", "first", "second", "third"}, ids(Apply(products, cfg)))

	cfg.Sort = SortRatingHigh
	assert.Equal(t, []string{"first", "second", "third", "cheap"}, ids(Apply(products, cfg)))
}

func TestApply_PriceLowScenario(t *testing.T) {
	products := []Product{
		{ID: "a", DiscountedPrice: d("100"), Price: d("100"), Rating: 4},
		{ID: "b", DiscountedPrice: d("50"), Price: d("50"), Rating: 5},
	}

	cfg := DefaultFilterConfig()
	cfg.Sort = SortPriceLow

	assert.Equal(t, []string{"b", "a"}, ids(Apply(products, cfg)))
}

func TestApply_EmptyInput(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.MinRating = 4
	cfg.ToggleTag("shoes")
	cfg.Sort = SortTitleAsc

	got := Apply(nil, cfg)
	assert.Empty(t, got)
}

func TestApply_NoMatchesIsEmptyNotError(t *testing.T) {
	products := []Product{p("a", "A", "10", 3)}

	cfg := DefaultFilterConfig()
	cfg.MinRating = 5

	assert.Empty(t, Apply(products, cfg))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := []Product{
		p("b", "B", "20", 3),
		p("a", "A", "10", 3),
	}

	cfg := DefaultFilterConfig()
	cfg.Sort = SortPriceLow
	_ = Apply(products, cfg)

	assert.Equal(t, []string{"b", "a"}, ids(products), "input order must be preserved")
}

func TestFilterConfig_Reset(t *testing.T) {
	cfg := DefaultFilterConfig()
	cfg.Query = "ring"
	cfg.PriceMin = d("100")
	cfg.PriceMax = d("500")
	cfg.MinRating = 4
	cfg.Sort = SortTitleDesc
	cfg.ToggleTag("shoes")

	cfg.Reset()

	assert.Equal(t, "ring", cfg.Query, "reset must not clear the search query")
	assert.True(t, cfg.PriceMin.Equal(DefaultPriceMin))
	assert.True(t, cfg.PriceMax.Equal(DefaultPriceMax))
	assert.Zero(t, cfg.MinRating)
	assert.Equal(t, SortDefault, cfg.Sort)
	assert.Empty(t, cfg.Tags)
}

func TestMatchTitle(t *testing.T) {
	products := []Product{
		p("a", "Velvet Evening Bag", "10", 3),
		p("b", "Leather Wallet", "10", 3),
		p("c", "velvet scrunchie", "10", 3),
	}

	got := MatchTitle(products, "VELVET")
	assert.Equal(t, []string{"a", "c"}, ids(got))

	assert.Empty(t, MatchTitle(products, "zzz"))
}

func TestAvailableTags(t *testing.T) {
	products := []Product{
		p("a", "A", "10", 3, "shoes", "leather"),
		p("b", "B", "10", 3, "bags", "leather"),
		p("c", "C", "10", 3),
	}

	assert.Equal(t, []string{"bags", "leather", "shoes"}, AvailableTags(products))
	assert.Empty(t, AvailableTags(nil))
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		price      string
		discounted string
		want       int
	}{
		{"25 percent off", "100", "75", 25},
		{"rounded up", "29.99", "19.99", 33},
		{"no discount", "50", "50", 0},
		{"discounted above price", "50", "60", 0},
		{"zero price", "0", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := Product{Price: d(tt.price), DiscountedPrice: d(tt.discounted)}
			require.Equal(t, tt.want, pr.DiscountPercent())
		})
	}
}
