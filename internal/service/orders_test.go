package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colmena-layout/internal/apperr"
)

func TestOrderLifecycle(t *testing.T) {
	e, _, _ := newEditor(t)
	e.Paint("seat", []int{0})
	e.Paint("table", []int{1})

	o := e.CreateOrder()
	assert.Empty(t, o.Items)

	o, err := e.AddToOrder(o.ID, "seat-1")
	require.NoError(t, err)
	o, err = e.AddToOrder(o.ID, "table-1")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, o.Total)

	_, err = e.AddToOrder(o.ID, "seat-42")
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	e.UpdateSettings(Settings{PriceTable: ptr(60000.0)})
	c, err := e.Checkout(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 80000.0, c.Total)
	assert.Equal(t, "COP", c.Currency)

	o, err = e.RemoveFromOrder(o.ID, "table-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"seat-1"}, o.Items)
	assert.Equal(t, 20000.0, o.Total)

	_, err = e.RemoveFromOrder(o.ID, "table-1")
	assert.ErrorIs(t, err, apperr.ErrNotInOrder)

	require.NoError(t, e.DeleteOrder(o.ID))
	_, err = e.Checkout(o.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAddToOrderRejectsSold(t *testing.T) {
	e, _, _ := newEditor(t)
	e.Paint("seat", []int{0})
	e.Select(SelectReplace, []int{0}, "")
	e.ApplySellState("sold")

	o := e.CreateOrder()
	_, err := e.AddToOrder(o.ID, "seat-1")
	assert.ErrorIs(t, err, apperr.ErrNotAvailable)
}

func TestRemoveItemThatLeftCatalog(t *testing.T) {
	e, _, _ := newEditor(t)
	e.Paint("seat", []int{0})
	o := e.CreateOrder()
	_, err := e.AddToOrder(o.ID, "seat-1")
	require.NoError(t, err)

	e.Clear()
	c, err := e.Checkout(o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"seat-1"}, c.Missing)
	assert.Zero(t, c.Total)

	o, err = e.RemoveFromOrder(o.ID, "seat-1")
	require.NoError(t, err)
	assert.Empty(t, o.Items)
}

func TestUnknownOrder(t *testing.T) {
	e, _, _ := newEditor(t)
	_, err := e.AddToOrder("nope", "seat-1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, e.DeleteOrder("nope"), ErrOrderNotFound)
}

func ptr[T any](v T) *T { return &v }
