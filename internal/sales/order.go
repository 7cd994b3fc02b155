package sales

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/model"
)

// CheckoutNote is attached to every checkout summary.
const CheckoutNote = "Sale preparation only; no payment has been taken."

// Order is an in-memory staging list of catalog item ids with a running
// total.  It is not a ledger.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Items     []string  `json:"items"`
	Total     float64   `json:"total"`
}

// NewOrder returns an empty order with a fresh id.
func NewOrder() *Order {
	return &Order{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Items:     []string{},
	}
}

// Contains reports whether id is already in the order.
func (o *Order) Contains(id string) bool {
	return o != nil && slices.Contains(o.Items, id)
}

// Add stages item.  Only available items can be added; adding an item
// twice is a no-op.
func (o *Order) Add(item *Item) error {
	if o == nil || item == nil {
		return apperr.ErrInvalid
	}
	if item.SellState != model.SellAvailable {
		return apperr.ErrNotAvailable
	}
	if o.Contains(item.ID) {
		return nil
	}
	o.Items = append(o.Items, item.ID)
	o.Total += item.Price
	return nil
}

// Remove unstages item.  The total never drops below zero.
func (o *Order) Remove(item *Item) error {
	if o == nil || item == nil {
		return apperr.ErrInvalid
	}
	i := slices.Index(o.Items, item.ID)
	if i < 0 {
		return apperr.ErrNotInOrder
	}
	o.Items = slices.Delete(o.Items, i, i+1)
	o.Total = math.Max(0, o.Total-item.Price)
	return nil
}

// Recalc recomputes the total from scratch against a fresh catalog.  Ids
// missing from the catalog count as zero.
func (o *Order) Recalc(items []Item) float64 {
	prices := make(map[string]float64, len(items))
	for _, it := range items {
		prices[it.ID] = it.Price
	}
	total := 0.0
	for _, id := range o.Items {
		total += prices[id]
	}
	o.Total = total
	return total
}

// Checkout is a read-only summary of an order against the current catalog.
type Checkout struct {
	OrderID  string   `json:"orderId"`
	Items    []Item   `json:"items"`
	Missing  []string `json:"missing"`
	Total    float64  `json:"total"`
	Currency string   `json:"currency"`
	Note     string   `json:"note"`
}

// CheckoutSummary resolves the order's ids against catalog.  Ids no longer
// in the catalog are reported in Missing.
func CheckoutSummary(o *Order, catalog []Item) Checkout {
	c := Checkout{
		OrderID:  o.ID,
		Items:    []Item{},
		Missing:  []string{},
		Currency: Currency,
		Note:     CheckoutNote,
	}
	for _, id := range o.Items {
		it, ok := FindItem(catalog, id)
		if !ok {
			c.Missing = append(c.Missing, id)
			continue
		}
		c.Items = append(c.Items, it)
		c.Total += it.Price
	}
	return c
}
