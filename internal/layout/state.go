// Package layout holds the seat/floor-plan editing state and the engine
// that keeps it consistent: construction from untrusted input, snapshots,
// bounded undo/redo history, and tool application over the cell grid.
package layout

import "github.com/iliyamo/colmena-layout/internal/model"

// State is the single mutable aggregate of one editing session.  The cell
// slice always holds exactly Rows*Cols entries.
type State struct {
	Rows int
	Cols int
	Zoom float64

	Tool model.Tool
	Mode model.Mode

	ShowNumbers      bool
	AutoNumber       bool
	ContinuousPaint  bool
	LegendVisible    bool
	GridLinesVisible bool

	EventName string

	PriceSeat  float64
	PriceTable float64

	// NextSeatNumber is never decremented by erasing; it resets to 1 only on
	// resize, clear or when a snapshot says so.
	NextSeatNumber int

	Selected Selection
	Cells    []model.Cell

	UndoStack    []HistoryEntry
	RedoStack    []HistoryEntry
	HistoryLimit int
}

// Overrides carries partial, possibly untrusted, initial values.  Nil fields
// take their defaults.
type Overrides struct {
	Rows             *int
	Cols             *int
	Zoom             *float64
	Tool             *string
	Mode             *string
	ShowNumbers      *bool
	AutoNumber       *bool
	ContinuousPaint  *bool
	LegendVisible    *bool
	GridLinesVisible *bool
	EventName        *string
	PriceSeat        *float64
	PriceTable       *float64
	NextSeatNumber   *int
	HistoryLimit     *int
	// Cells is used only when its length equals the final rows*cols.
	Cells []model.CellRecord
}

func intOr(p *int, d int) int {
	if p == nil {
		return d
	}
	return *p
}

func floatOr(p *float64, d float64) float64 {
	if p == nil {
		return d
	}
	return *p
}

func boolOr(p *bool, d bool) bool {
	if p == nil {
		return d
	}
	return *p
}

func stringOr(p *string, d string) string {
	if p == nil {
		return d
	}
	return *p
}

// NewState builds a fully valid State from o.  It never produces an invalid
// State whatever the input.
func NewState(o Overrides) *State {
	rows := model.ClampDimension(intOr(o.Rows, DefaultRows))
	cols := model.ClampDimension(intOr(o.Cols, DefaultCols))

	s := &State{
		Rows:             rows,
		Cols:             cols,
		Zoom:             sanitizeZoom(floatOr(o.Zoom, DefaultZoom), DefaultZoom),
		Tool:             model.SanitizeTool(stringOr(o.Tool, string(DefaultTool))),
		Mode:             model.SanitizeMode(stringOr(o.Mode, string(DefaultMode))),
		ShowNumbers:      boolOr(o.ShowNumbers, DefaultShowNumbers),
		AutoNumber:       boolOr(o.AutoNumber, DefaultAutoNumber),
		ContinuousPaint:  boolOr(o.ContinuousPaint, DefaultContinuousPaint),
		LegendVisible:    boolOr(o.LegendVisible, DefaultLegendVisible),
		GridLinesVisible: boolOr(o.GridLinesVisible, DefaultGridLinesVisible),
		EventName:        stringOr(o.EventName, ""),
		PriceSeat:        sanitizeBasePrice(floatOr(o.PriceSeat, DefaultPriceSeat), DefaultPriceSeat),
		PriceTable:       sanitizeBasePrice(floatOr(o.PriceTable, DefaultPriceTable), DefaultPriceTable),
		NextSeatNumber:   sanitizeSeatCounter(intOr(o.NextSeatNumber, 1)),
		Selected:         NewSelection(),
		HistoryLimit:     sanitizeHistoryLimit(intOr(o.HistoryLimit, DefaultHistoryLimit)),
	}

	if len(o.Cells) == rows*cols {
		s.Cells = make([]model.Cell, len(o.Cells))
		for i, rec := range o.Cells {
			s.Cells[i] = model.NewCell(rec)
		}
	} else {
		s.Cells = model.NewCells(rows, cols)
	}
	return s
}

// ResetGrid re-clamps the dimensions and replaces every cell with a blank
// one.  It is destructive: callers checkpoint history first.
func (s *State) ResetGrid(rows, cols int) {
	s.Rows = model.ClampDimension(rows)
	s.Cols = model.ClampDimension(cols)
	s.Cells = model.NewCells(s.Rows, s.Cols)
	s.selection().Clear()
	s.NextSeatNumber = 1
}

// ClearCells blanks every cell while keeping the dimensions.
func (s *State) ClearCells() {
	s.ResetGrid(s.Rows, s.Cols)
}

// BasePrice returns the configured base price for a cell type.  Non-sellable
// types have a base price of zero.
func (s *State) BasePrice(t model.CellType) float64 {
	switch t {
	case model.CellSeat:
		return s.PriceSeat
	case model.CellTable:
		return s.PriceTable
	}
	return 0
}

// EffectivePrice resolves the price of c: its own override when usable,
// otherwise the base price for its type.  Empty cells have no price.
func (s *State) EffectivePrice(c model.Cell) (float64, bool) {
	if c.Type == model.CellEmpty {
		return 0, false
	}
	if c.Price != nil && finite(*c.Price) && *c.Price >= 0 {
		return *c.Price, true
	}
	return s.BasePrice(c.Type), true
}

// SetPrices sanitises and stores the base prices.
func (s *State) SetPrices(seat, table float64) {
	s.PriceSeat = sanitizeBasePrice(seat, s.PriceSeat)
	s.PriceTable = sanitizeBasePrice(table, s.PriceTable)
}

// SetZoom clamps and stores the zoom factor.
func (s *State) SetZoom(z float64) {
	s.Zoom = sanitizeZoom(z, s.Zoom)
}

// SetHistoryLimit changes the bound and trims both stacks to it, dropping
// the oldest entries first.
func (s *State) SetHistoryLimit(n int) {
	s.HistoryLimit = sanitizeHistoryLimit(n)
	s.UndoStack = trimOldest(s.UndoStack, s.HistoryLimit)
	s.RedoStack = trimOldest(s.RedoStack, s.HistoryLimit)
}
