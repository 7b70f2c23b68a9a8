// Package checkout implements the simulated checkout flow: no payment
// processing and no order submission, just a fixed processing delay followed
// by clearing the cart.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haugland/velour/internal/cart"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// DefaultDelay matches the simulated processing time of the storefront UI.
const DefaultDelay = time.Second

// Order is the local record produced by a simulated checkout. It never
// leaves the client.
type Order struct {
	ID        string
	Items     []cart.Item
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Processor runs simulated checkouts.
type Processor struct {
	delay time.Duration
	now   func() time.Time
}

// NewProcessor returns a Processor with the given processing delay. A
// non-positive delay falls back to DefaultDelay.
func NewProcessor(delay time.Duration) *Processor {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Processor{delay: delay, now: time.Now}
}

// Checkout snapshots the cart, waits out the simulated processing delay,
// clears the cart, and returns the order record. The cart is left untouched
// when the context is cancelled during processing.
func (p *Processor) Checkout(ctx context.Context, carts *cart.Store) (*Order, error) {
	st := carts.State()
	if len(st.Items) == 0 {
		return nil, ErrEmptyCart
	}

	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	carts.ClearCart()

	return &Order{
		ID:        uuid.New().String(),
		Items:     st.Items,
		Total:     st.Total,
		CreatedAt: p.now(),
	}, nil
}
