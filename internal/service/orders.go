package service

import (
	"errors"
	"slices"

	"github.com/iliyamo/colmena-layout/internal/sales"
)

// ErrOrderNotFound is returned for unknown order ids.
var ErrOrderNotFound = errors.New("order not found")

// orderBook keeps the session's staged orders.  Callers hold the editor lock.
type orderBook struct {
	orders map[string]*sales.Order
}

func newOrderBook() *orderBook {
	return &orderBook{orders: make(map[string]*sales.Order)}
}

func (b *orderBook) get(id string) (*sales.Order, error) {
	o, ok := b.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// copyOrder detaches an order from the book so it can be served after the
// lock is released.
func copyOrder(o *sales.Order) sales.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return c
}

// CreateOrder stages a new empty order.
func (e *Editor) CreateOrder() sales.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := sales.NewOrder()
	e.orders.orders[o.ID] = o
	e.metrics.Orders(len(e.orders.orders))
	return copyOrder(o)
}

// Checkout summarises an order against the current catalog.  The order's
// total is recalculated first so it reflects price changes.
func (e *Editor) Checkout(id string) (sales.Checkout, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, err := e.orders.get(id)
	if err != nil {
		return sales.Checkout{}, err
	}
	catalog := sales.BuildCatalog(e.state)
	o.Recalc(catalog)
	return sales.CheckoutSummary(o, catalog), nil
}

// AddToOrder stages a catalog item.  Unknown items fail with INVALID and
// items that are not available with NOT_AVAILABLE.
func (e *Editor) AddToOrder(id, itemID string) (sales.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, err := e.orders.get(id)
	if err != nil {
		return sales.Order{}, err
	}
	catalog := sales.BuildCatalog(e.state)
	var item *sales.Item
	if it, ok := sales.FindItem(catalog, itemID); ok {
		item = &it
	}
	if err := o.Add(item); err != nil {
		return sales.Order{}, err
	}
	o.Recalc(catalog)
	return copyOrder(o), nil
}

// RemoveFromOrder unstages an item.  Items that have since left the catalog
// can still be removed.
func (e *Editor) RemoveFromOrder(id, itemID string) (sales.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, err := e.orders.get(id)
	if err != nil {
		return sales.Order{}, err
	}
	catalog := sales.BuildCatalog(e.state)
	item, ok := sales.FindItem(catalog, itemID)
	if !ok {
		item = sales.Item{ID: itemID}
	}
	if err := o.Remove(&item); err != nil {
		return sales.Order{}, err
	}
	o.Recalc(catalog)
	return copyOrder(o), nil
}

// DeleteOrder drops a staged order.
func (e *Editor) DeleteOrder(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.orders.get(id); err != nil {
		return err
	}
	delete(e.orders.orders, id)
	e.metrics.Orders(len(e.orders.orders))
	return nil
}
