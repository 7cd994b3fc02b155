package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/model"
)

func TestNewOrder(t *testing.T) {
	o := NewOrder()
	_, err := uuid.Parse(o.ID)
	assert.NoError(t, err)
	assert.Empty(t, o.Items)
	assert.Zero(t, o.Total)
}

func TestOrderAddRemove(t *testing.T) {
	items := BuildCatalog(venue(t))
	seat, table := items[0], items[1]

	o := NewOrder()
	require.NoError(t, o.Add(&seat))
	require.NoError(t, o.Add(&table))
	require.NoError(t, o.Add(&seat))
	assert.Equal(t, []string{"seat-1", "table-1"}, o.Items)
	assert.Equal(t, 100000.0, o.Total)

	require.NoError(t, o.Remove(&seat))
	assert.Equal(t, []string{"table-1"}, o.Items)
	assert.Equal(t, 80000.0, o.Total)

	err := o.Remove(&seat)
	assert.ErrorIs(t, err, apperr.ErrNotInOrder)
}

func TestOrderRejectsUnavailable(t *testing.T) {
	s := venue(t)
	s.Cells[0].SellState = model.SellReserved
	items := BuildCatalog(s)

	o := NewOrder()
	err := o.Add(&items[0])
	assert.ErrorIs(t, err, apperr.ErrNotAvailable)
	assert.Empty(t, o.Items)
}

func TestOrderInvalid(t *testing.T) {
	var o *Order
	assert.ErrorIs(t, o.Add(&Item{}), apperr.ErrInvalid)
	assert.ErrorIs(t, NewOrder().Add(nil), apperr.ErrInvalid)
	assert.ErrorIs(t, NewOrder().Remove(nil), apperr.ErrInvalid)
}

func TestOrderTotalNeverNegative(t *testing.T) {
	items := BuildCatalog(venue(t))
	o := NewOrder()
	require.NoError(t, o.Add(&items[0]))

	repriced := items[0]
	repriced.Price = 999999
	require.NoError(t, o.Remove(&repriced))
	assert.Zero(t, o.Total)
}

func TestOrderRecalcAfterPriceDrift(t *testing.T) {
	s := venue(t)
	o := NewOrder()
	for _, it := range BuildCatalog(s) {
		require.NoError(t, o.Add(&it))
	}
	s.PriceTable = 50000
	s.Cells[0].Price = model.PriceOf(1000)

	assert.Equal(t, 51000.0, o.Recalc(BuildCatalog(s)))
	assert.Equal(t, 51000.0, o.Total)

	s.Cells[1] = model.EmptyCell()
	assert.Equal(t, 1000.0, o.Recalc(BuildCatalog(s)))
}

func TestCheckoutSummary(t *testing.T) {
	s := venue(t)
	o := NewOrder()
	for _, it := range BuildCatalog(s) {
		require.NoError(t, o.Add(&it))
	}
	s.Cells[1] = model.EmptyCell()

	c := CheckoutSummary(o, BuildCatalog(s))
	assert.Equal(t, o.ID, c.OrderID)
	assert.Equal(t, "COP", c.Currency)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "seat-1", c.Items[0].ID)
	assert.Equal(t, []string{"table-1"}, c.Missing)
	assert.Equal(t, 20000.0, c.Total)
	assert.NotEmpty(t, c.Note)
}
