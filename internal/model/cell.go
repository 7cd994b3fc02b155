package model

import (
	"encoding/json"
	"math"
)

// Cell is the data record of one grid position.  Its position is implied by
// its index in the owning cell slice.
type Cell struct {
	Type       CellType // CellEmpty when unoccupied
	SeatNumber int      // 0 when none; only seats carry one
	Zone       Zone
	Price      *float64 // per-cell override of the base price, nil uses the base
	SellState  SellState
}

// MaxSeatNumber bounds imported seat numbers; larger values are dropped.
const MaxSeatNumber = math.MaxInt32

// CellRecord is the plain, persisted form of a cell as it appears in
// snapshots and exchanged JSON.  Values in a record are untrusted until they
// pass through NewCell.
type CellRecord struct {
	Type       *string  `json:"type"`
	SeatNumber *float64 `json:"seatNumber"`
	Zone       string   `json:"zone"`
	Price      *float64 `json:"price"`
	SellState  string   `json:"sellState"`
}

// UnmarshalJSON decodes a record without rejecting mistyped fields.  A type
// must be a string, numbers may arrive as numeric strings, and anything
// unusable is left at its zero value for NewCell to default.  A non-object
// entry decodes as an empty record.
func (r *CellRecord) UnmarshalJSON(data []byte) error {
	*r = CellRecord{}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) != nil {
		return nil
	}
	if json.Unmarshal(fields["type"], &r.Type) != nil {
		r.Type = nil
	}
	if n, ok := LooseNumber(fields["seatNumber"]); ok {
		r.SeatNumber = &n
	}
	if p, ok := LooseNumber(fields["price"]); ok {
		r.Price = &p
	}
	r.Zone = LooseString(fields["zone"])
	r.SellState = LooseString(fields["sellState"])
	return nil
}

// EmptyCell returns an unoccupied cell with default zone and sell-state.
func EmptyCell() Cell {
	return Cell{Zone: ZoneNone, SellState: SellAvailable}
}

// NewCells allocates a blank row-major cell slice of rows*cols entries.
func NewCells(rows, cols int) []Cell {
	n := rows * cols
	if n < 0 {
		n = 0
	}
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = EmptyCell()
	}
	return cells
}

// NewCell is the only way untrusted cell data becomes a Cell.  Unknown types
// become empty, unknown zones and sell-states fall back to their defaults,
// seat numbers survive only on seats and only within [1, MaxSeatNumber], and
// prices survive only when finite and non-negative.
func NewCell(rec CellRecord) Cell {
	c := EmptyCell()
	if rec.Type != nil {
		c.Type = ParseCellType(*rec.Type)
	}
	if c.Type == CellSeat && rec.SeatNumber != nil {
		if n := *rec.SeatNumber; !math.IsNaN(n) && !math.IsInf(n, 0) && n >= 1 && n <= MaxSeatNumber {
			c.SeatNumber = int(math.Trunc(n))
		}
	}
	c.Zone = SanitizeZone(rec.Zone)
	c.Price = SanitizePrice(rec.Price)
	c.SellState = SanitizeSellState(rec.SellState)
	return c
}

// Record converts a cell into its plain persisted form.  The returned record
// shares no memory with c.
func (c Cell) Record() CellRecord {
	rec := CellRecord{
		Zone:      string(SanitizeZone(string(c.Zone))),
		SellState: string(SanitizeSellState(string(c.SellState))),
		Price:     SanitizePrice(c.Price),
	}
	if c.Type != CellEmpty {
		t := string(c.Type)
		rec.Type = &t
	}
	if c.SeatNumber > 0 {
		n := float64(c.SeatNumber)
		rec.SeatNumber = &n
	}
	return rec
}

// IsEmpty reports whether the cell carries no type.
func (c Cell) IsEmpty() bool { return c.Type == CellEmpty }

// SanitizePrice copies p when it is finite and non-negative and returns nil
// otherwise.
func SanitizePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// PriceOf is a small helper for building price overrides inline.
func PriceOf(v float64) *float64 { return &v }
