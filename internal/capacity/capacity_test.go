package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// venue returns a 5x5 grid with a seat at 0 and a table at 1.
func venue() []model.Cell {
	cells := model.NewCells(5, 5)
	cells[0] = model.Cell{Type: model.CellSeat, SeatNumber: 1, Zone: model.ZoneNone, SellState: model.SellAvailable}
	cells[1] = model.Cell{Type: model.CellTable, Zone: model.ZoneNone, SellState: model.SellAvailable}
	return cells
}

func TestComputeSeatAndTable(t *testing.T) {
	r := Compute(venue(), Config{})
	assert.Equal(t, 1, r.Totals.Seats)
	assert.Equal(t, 1, r.Totals.Tables)
	assert.Equal(t, 5, r.Totals.Capacity)
	assert.Equal(t, DefaultConfig(), r.ConfigUsed)
	assert.Len(t, r.ByZone, 5)
	assert.Equal(t, 5, r.ByZone[model.ZoneNone].Capacity)
	assert.Equal(t, 2, r.BySellState.Available)
}

func TestComputeByZoneAndState(t *testing.T) {
	cells := venue()
	cells[0].Zone = model.ZoneVIP
	cells[0].SellState = model.SellSold
	cells[2] = model.Cell{Type: model.CellTable, Zone: model.ZoneVIP, SellState: model.SellBlocked}
	cells[3] = model.Cell{Type: model.CellWall, Zone: model.ZoneVIP, SellState: model.SellSold}

	r := Compute(cells, Config{PersonsPerSeat: Persons(2), PersonsPerTable: Persons(6)})
	vip := r.ByZone[model.ZoneVIP]
	assert.Equal(t, 1, vip.Seats)
	assert.Equal(t, 1, vip.Tables)
	assert.Equal(t, 8, vip.Capacity)
	assert.Equal(t, 1, vip.Sold)
	assert.Equal(t, 1, vip.Blocked)
	assert.Equal(t, Counts{Sold: 1}, r.Breakdown.Seats)
	assert.Equal(t, Counts{Available: 1, Blocked: 1}, r.Breakdown.Tables)
	assert.Equal(t, 14, r.Totals.Capacity)
}

func TestComputeHonoursZeroPersons(t *testing.T) {
	r := Compute(venue(), Config{PersonsPerSeat: Persons(0)})
	assert.Equal(t, 0, r.Totals.SeatCapacity)
	assert.Equal(t, 4, r.Totals.TableCapacity)
	assert.Equal(t, 4, r.Totals.Capacity)
	assert.Equal(t, 0, *r.ConfigUsed.PersonsPerSeat)

	a := ComputeAvailable(venue(), Config{PersonsPerSeat: Persons(3), PersonsPerTable: Persons(0)})
	assert.Equal(t, Available{AvailableCapacity: 3, AvailableSeats: 1, AvailableTables: 1}, a)
}

func TestComputeFloorsNegativePersons(t *testing.T) {
	r := Compute(venue(), Config{PersonsPerSeat: Persons(-2), PersonsPerTable: Persons(-1)})
	assert.Equal(t, 0, r.Totals.Capacity)
	assert.Equal(t, Config{PersonsPerSeat: Persons(0), PersonsPerTable: Persons(0)}, r.ConfigUsed)
}

func TestComputeAvailable(t *testing.T) {
	cells := venue()
	cells[1].SellState = model.SellReserved
	a := ComputeAvailable(cells, DefaultConfig())
	assert.Equal(t, Available{AvailableCapacity: 1, AvailableSeats: 1}, a)
}

func TestOccupancy(t *testing.T) {
	cells := venue()
	cells[0].SellState = model.SellSold
	o := ComputeOccupancy(cells)
	assert.Equal(t, 2, o.TotalUnits)
	assert.Equal(t, 1, o.SoldUnits)
	assert.Equal(t, 50, o.SoldPct)
	assert.Equal(t, 50, o.AvailablePct)
	assert.Zero(t, o.ReservedPct)
}

func TestOccupancyEmptyVenue(t *testing.T) {
	o := ComputeOccupancy(model.NewCells(5, 5))
	assert.Equal(t, Occupancy{}, o)
}

func TestOccupancyRounding(t *testing.T) {
	cells := model.NewCells(5, 5)
	for i := 0; i < 3; i++ {
		cells[i] = model.Cell{Type: model.CellSeat, SellState: model.SellAvailable}
	}
	cells[0].SellState = model.SellReserved
	o := ComputeOccupancy(cells)
	assert.Equal(t, 33, o.ReservedPct)
	assert.Equal(t, 67, o.AvailablePct)
}

func TestRankZones(t *testing.T) {
	cells := venue()
	cells[1].Zone = model.ZoneBalcon
	ranks := RankZones(cells, Config{})
	assert.Len(t, ranks, 5)
	assert.Equal(t, model.ZoneBalcon, ranks[0].Zone)
	assert.Equal(t, 4, ranks[0].Capacity)
	assert.Equal(t, model.ZoneNone, ranks[1].Zone)
	assert.Equal(t, QuickStats{Seats: 1, Tables: 1, Capacity: 5}, Quick(cells, Config{}))
}
