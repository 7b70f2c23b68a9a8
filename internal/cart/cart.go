// Package cart implements the shopping cart state: pure transition functions
// over an immutable State, plus a Store that applies them atomically and
// notifies subscribers. Persistence is a separate concern layered on top via
// the subscription interface.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/haugland/velour/internal/catalog"
)

// Item is a product in the cart together with its quantity. Item identity is
// the product ID: a cart never holds two items for the same product.
type Item struct {
	catalog.Product
	Quantity int
}

// State is an immutable snapshot of the cart: items in first-add order and
// the derived total. Total always equals the sum over items of
// discountedPrice times quantity.
type State struct {
	Items []Item
	Total decimal.Decimal
}

// EmptyState returns a cart with no items and a zero total.
func EmptyState() State {
	return State{Total: decimal.Zero}
}

// Add returns the state after adding one unit of the product. A repeat add
// increments the existing item's quantity; a first add appends a new item
// with quantity 1, preserving first-add order. Add always succeeds.
func Add(s State, p catalog.Product) State {
	items := make([]Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)

	found := false
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, Item{Product: p, Quantity: 1})
	}

	return State{Items: items, Total: totalOf(items)}
}

// Remove returns the state without the item for productID. Removing an
// absent product is a no-op, not an error.
func Remove(s State, productID string) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID == productID {
			continue
		}
		items = append(items, it)
	}
	if len(items) == len(s.Items) {
		return s
	}
	return State{Items: items, Total: totalOf(items)}
}

// UpdateQuantity returns the state with the item's quantity set to quantity.
// Quantities below 1 are silently ignored: the minimum enforced quantity is 1
// and UI affordances are expected to clamp before calling. An absent
// productID is likewise a no-op.
func UpdateQuantity(s State, productID string, quantity int) State {
	if quantity < 1 {
		return s
	}

	found := false
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return s
	}
	return State{Items: items, Total: totalOf(items)}
}

// Clear returns the empty cart state.
func Clear(State) State {
	return EmptyState()
}

// totalOf recomputes the derived total from scratch. The total is never
// maintained independently of the items, so the two cannot diverge.
func totalOf(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		line := it.DiscountedPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}
