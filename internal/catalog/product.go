package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Products are
// owned by the external catalog API and are immutable on the client side.
type Product struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Image           Media           `json:"image"`
	Rating          float64         `json:"rating"`
	Tags            []string        `json:"tags"`
	Reviews         []Review        `json:"reviews"`
}

// Media holds an image URL together with its accessible alt text.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Review is a customer review attached to a product. Reviews are owned by
// their parent product and never mutated client-side.
type Review struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns the rounded percentage difference between the base
// and discounted price. It is derived, never stored, and returns 0 when the
// product carries no discount.
func (p Product) DiscountPercent() int {
	if !p.Price.IsPositive() || p.DiscountedPrice.GreaterThanOrEqual(p.Price) {
		return 0
	}
	pct := p.Price.Sub(p.DiscountedPrice).Div(p.Price).Mul(hundred)
	return int(pct.Round(0).IntPart())
}
