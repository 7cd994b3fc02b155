package layout

import "github.com/iliyamo/colmena-layout/internal/model"

// ApplyTool applies the active tool to the cell at index i and reports
// whether the cell changed.
//
// Erasing resets the cell completely.  Painting a different type resets the
// seat number and sell-state but keeps zone and price.  Painting a seat with
// AutoNumber on assigns the next seat number when the seat has none; numbers
// are never handed out twice in a session.
func (s *State) ApplyTool(i int) bool {
	if !model.InBounds(i, s.Rows, s.Cols) || i >= len(s.Cells) {
		return false
	}
	c := &s.Cells[i]

	if s.Tool == model.ToolErase {
		had := c.Type != model.CellEmpty || c.SeatNumber != 0 || c.Zone != model.ZoneNone ||
			c.Price != nil || c.SellState != model.SellAvailable
		*c = model.EmptyCell()
		return had
	}

	t := s.Tool.CellType()
	if !t.Placeable() {
		return false
	}

	changed := false
	if t != c.Type {
		changed = true
		c.SeatNumber = 0
		c.SellState = model.SellAvailable
	}
	if t == model.CellSeat && s.AutoNumber && c.SeatNumber == 0 {
		c.SeatNumber = s.NextSeatNumber
		s.NextSeatNumber++
		changed = true
	}
	c.Type = t
	return changed
}

// Paint checkpoints once for the whole gesture and then applies the active
// tool to every index.  It returns the number of cells that changed.
func (s *State) Paint(reason string, indices []int) int {
	s.PushUndo(reason)
	changed := 0
	for _, i := range indices {
		if s.ApplyTool(i) {
			changed++
		}
	}
	return changed
}

// eachSelected calls fn for every in-range selected cell and reports whether
// any call changed something.
func (s *State) eachSelected(fn func(c *model.Cell) bool) bool {
	changed := false
	for _, i := range s.Selected.Indices() {
		if i < 0 || i >= len(s.Cells) {
			continue
		}
		if fn(&s.Cells[i]) {
			changed = true
		}
	}
	return changed
}

// ApplyZone tags every selected cell with z.
func (s *State) ApplyZone(z model.Zone) bool {
	z = model.SanitizeZone(string(z))
	return s.eachSelected(func(c *model.Cell) bool {
		if c.Zone == z {
			return false
		}
		c.Zone = z
		return true
	})
}

// ClearZone resets the zone of every selected cell.
func (s *State) ClearZone() bool { return s.ApplyZone(model.ZoneNone) }

// ApplyPrice sets a price override on every selected cell.  Negative or
// non-finite prices are rejected and change nothing.
func (s *State) ApplyPrice(price float64) bool {
	if !finite(price) || price < 0 {
		return false
	}
	return s.eachSelected(func(c *model.Cell) bool {
		if c.Price != nil && *c.Price == price {
			return false
		}
		c.Price = model.PriceOf(price)
		return true
	})
}

// ClearPrice removes the price override of every selected cell.
func (s *State) ClearPrice() bool {
	return s.eachSelected(func(c *model.Cell) bool {
		if c.Price == nil {
			return false
		}
		c.Price = nil
		return true
	})
}

// ApplySellState sets the sell-state of every selected cell.
func (s *State) ApplySellState(ss model.SellState) bool {
	ss = model.SanitizeSellState(string(ss))
	return s.eachSelected(func(c *model.Cell) bool {
		if c.SellState == ss {
			return false
		}
		c.SellState = ss
		return true
	})
}

// ResetSellState marks every selected cell available again.
func (s *State) ResetSellState() bool { return s.ApplySellState(model.SellAvailable) }

// ToggleSelection flips i in the selection.  Out-of-range indices are ignored.
func (s *State) ToggleSelection(i int) bool {
	if !model.InBounds(i, s.Rows, s.Cols) {
		return false
	}
	return s.selection().Toggle(i)
}

// Select adds indices to the selection, replacing it unless additive.
// Out-of-range indices are ignored.  It returns the new selection size.
func (s *State) Select(indices []int, additive bool) int {
	sel := s.selection()
	if !additive {
		sel.Clear()
	}
	for _, i := range indices {
		if model.InBounds(i, s.Rows, s.Cols) {
			sel.Add(i)
		}
	}
	return sel.Len()
}

// SelectType replaces the selection with every cell of type t.
func (s *State) SelectType(t model.CellType) int {
	sel := s.selection()
	sel.Clear()
	for i, c := range s.Cells {
		if c.Type == t {
			sel.Add(i)
		}
	}
	return sel.Len()
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() { s.selection().Clear() }

func (s *State) selection() Selection {
	if s.Selected == nil {
		s.Selected = NewSelection()
	}
	return s.Selected
}
