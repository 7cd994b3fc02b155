package layout

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// ErrCellCountMismatch is returned by Apply when a snapshot's cell slice does
// not hold exactly rows*cols entries after clamping.
var ErrCellCountMismatch = errors.New("snapshot cell count does not match rows*cols")

// Snapshot is a plain, self-contained copy of the persisted State fields.  It
// shares no memory with the State it was taken from.
type Snapshot struct {
	Rows             int                `json:"rows"`
	Cols             int                `json:"cols"`
	Zoom             float64            `json:"zoom"`
	Tool             string             `json:"tool"`
	Mode             string             `json:"mode"`
	ShowNumbers      bool               `json:"showNumbers"`
	AutoNumber       bool               `json:"autoNumber"`
	ContinuousPaint  bool               `json:"continuousPaint"`
	LegendVisible    bool               `json:"legendVisible"`
	GridLinesVisible bool               `json:"gridLinesVisible"`
	EventName        string             `json:"eventName"`
	PriceSeat        float64            `json:"priceSeat"`
	PriceTable       float64            `json:"priceTable"`
	NextSeatNumber   int                `json:"nextSeatNumber"`
	Selected         []int              `json:"selected"`
	Cells            []model.CellRecord `json:"cells"`
}

// UnmarshalJSON decodes a snapshot without rejecting mistyped fields.
// Numbers may arrive as floats or numeric strings and are truncated where an
// integer is expected.  Unusable dimensions, zoom and seat counter decode as
// zero, which Apply treats as absent, and unusable base prices take their
// defaults.  A cells value that is not an array decodes as no cells, so Apply
// rejects it.  A non-object snapshot decodes as the zero Snapshot.
func (snap *Snapshot) UnmarshalJSON(data []byte) error {
	*snap = Snapshot{}
	var f map[string]json.RawMessage
	if json.Unmarshal(data, &f) != nil {
		return nil
	}

	snap.Rows, _ = model.LooseInt(f["rows"])
	snap.Cols, _ = model.LooseInt(f["cols"])
	snap.Zoom, _ = model.LooseNumber(f["zoom"])
	snap.Tool = model.LooseString(f["tool"])
	snap.Mode = model.LooseString(f["mode"])
	snap.ShowNumbers = model.Truthy(f["showNumbers"])
	snap.AutoNumber = model.Truthy(f["autoNumber"])
	snap.ContinuousPaint = model.Truthy(f["continuousPaint"])
	snap.LegendVisible = model.Truthy(f["legendVisible"])
	snap.GridLinesVisible = model.Truthy(f["gridLinesVisible"])
	snap.EventName = model.LooseText(f["eventName"])
	snap.NextSeatNumber, _ = model.LooseInt(f["nextSeatNumber"])

	var ok bool
	if snap.PriceSeat, ok = model.LooseNumber(f["priceSeat"]); !ok {
		snap.PriceSeat = DefaultPriceSeat
	}
	if snap.PriceTable, ok = model.LooseNumber(f["priceTable"]); !ok {
		snap.PriceTable = DefaultPriceTable
	}

	var selected []json.RawMessage
	if json.Unmarshal(f["selected"], &selected) == nil {
		snap.Selected = make([]int, 0, len(selected))
		for _, raw := range selected {
			if n, ok := model.LooseInt(raw); ok && n >= 0 {
				snap.Selected = append(snap.Selected, n)
			}
		}
	}

	if json.Unmarshal(f["cells"], &snap.Cells) != nil {
		snap.Cells = nil
	}
	return nil
}

// Snapshot copies the persisted fields of s by value.  The selection is
// recorded as ascending indices.
func (s *State) Snapshot() Snapshot {
	cells := make([]model.CellRecord, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = c.Record()
	}
	return Snapshot{
		Rows:             s.Rows,
		Cols:             s.Cols,
		Zoom:             s.Zoom,
		Tool:             string(s.Tool),
		Mode:             string(s.Mode),
		ShowNumbers:      s.ShowNumbers,
		AutoNumber:       s.AutoNumber,
		ContinuousPaint:  s.ContinuousPaint,
		LegendVisible:    s.LegendVisible,
		GridLinesVisible: s.GridLinesVisible,
		EventName:        s.EventName,
		PriceSeat:        s.PriceSeat,
		PriceTable:       s.PriceTable,
		NextSeatNumber:   s.NextSeatNumber,
		Selected:         s.Selected.Indices(),
		Cells:            cells,
	}
}

// Apply overwrites s with the contents of snap.  Every external structure
// (storage, import, undo, redo) re-enters the State through here.
//
// The snapshot is validated before anything is touched: if its cell count
// does not equal the clamped rows*cols, Apply returns ErrCellCountMismatch
// and s is left exactly as it was.  On success every enum and every cell is
// re-sanitised and the selection is cleared.  Zero rows, cols or zoom mean
// "absent" and keep the current value.
func (s *State) Apply(snap Snapshot) error {
	rows, cols, err := s.dimensions(snap)
	if err != nil {
		return err
	}

	cells := make([]model.Cell, len(snap.Cells))
	for i, rec := range snap.Cells {
		cells[i] = model.NewCell(rec)
	}

	s.Rows = rows
	s.Cols = cols
	s.Zoom = sanitizeZoom(snap.Zoom, s.Zoom)
	s.Tool = model.SanitizeTool(snap.Tool)
	s.Mode = model.SanitizeMode(snap.Mode)
	s.ShowNumbers = snap.ShowNumbers
	s.AutoNumber = snap.AutoNumber
	s.ContinuousPaint = snap.ContinuousPaint
	s.LegendVisible = snap.LegendVisible
	s.GridLinesVisible = snap.GridLinesVisible
	s.EventName = snap.EventName
	s.PriceSeat = sanitizeBasePrice(snap.PriceSeat, DefaultPriceSeat)
	s.PriceTable = sanitizeBasePrice(snap.PriceTable, DefaultPriceTable)
	s.NextSeatNumber = sanitizeSeatCounter(snap.NextSeatNumber)
	s.Cells = cells

	if s.Selected == nil {
		s.Selected = NewSelection()
	} else {
		s.Selected.Clear()
	}
	return nil
}

// Check reports whether Apply would accept snap, without touching s.
func (s *State) Check(snap Snapshot) error {
	_, _, err := s.dimensions(snap)
	return err
}

// dimensions resolves the clamped grid size of snap and validates its cell
// count against it.
func (s *State) dimensions(snap Snapshot) (rows, cols int, err error) {
	rows, cols = s.Rows, s.Cols
	if snap.Rows != 0 {
		rows = snap.Rows
	}
	if snap.Cols != 0 {
		cols = snap.Cols
	}
	rows = model.ClampDimension(rows)
	cols = model.ClampDimension(cols)

	if len(snap.Cells) != rows*cols {
		return 0, 0, fmt.Errorf("%w: got %d cells for %dx%d", ErrCellCountMismatch, len(snap.Cells), rows, cols)
	}
	return rows, cols, nil
}
