package model

// CellType is the physical kind of a grid cell.  The zero value (CellEmpty)
// marks an unoccupied position.
type CellType string

const (
	CellEmpty CellType = ""
	CellSeat  CellType = "seat"
	CellTable CellType = "table"
	CellStage CellType = "stage"
	CellWall  CellType = "wall"
	CellAisle CellType = "aisle"
)

// Placeable reports whether t is one of the types a tool can paint.
func (t CellType) Placeable() bool {
	switch t {
	case CellSeat, CellTable, CellStage, CellWall, CellAisle:
		return true
	}
	return false
}

// Sellable reports whether cells of this type become sale units.
func (t CellType) Sellable() bool { return t == CellSeat || t == CellTable }

// ParseCellType maps untrusted text to a CellType; anything unknown is empty.
func ParseCellType(s string) CellType {
	t := CellType(s)
	if t.Placeable() {
		return t
	}
	return CellEmpty
}

// Zone is a pricing/grouping tag, independent of the cell's type.
type Zone string

const (
	ZoneNone         Zone = "none"
	ZoneVIP          Zone = "vip"
	ZonePreferencial Zone = "preferencial"
	ZoneGeneral      Zone = "general"
	ZoneBalcon       Zone = "balcon"
)

// Zones lists every zone in display order.
func Zones() []Zone {
	return []Zone{ZoneNone, ZoneVIP, ZonePreferencial, ZoneGeneral, ZoneBalcon}
}

// SanitizeZone maps unrecognised input to ZoneNone.
func SanitizeZone(s string) Zone {
	for _, z := range Zones() {
		if string(z) == s {
			return z
		}
	}
	return ZoneNone
}

// SellState tracks where a sellable unit is in the pre-sale flow.
type SellState string

const (
	SellAvailable SellState = "available"
	SellReserved  SellState = "reserved"
	SellSold      SellState = "sold"
	SellBlocked   SellState = "blocked"
)

// SellStates lists every sell-state in display order.
func SellStates() []SellState {
	return []SellState{SellAvailable, SellReserved, SellSold, SellBlocked}
}

// SanitizeSellState maps unrecognised input to SellAvailable.
func SanitizeSellState(s string) SellState {
	for _, ss := range SellStates() {
		if string(ss) == s {
			return ss
		}
	}
	return SellAvailable
}

// Tool is the active painting tool.
type Tool string

const (
	ToolSeat  Tool = "seat"
	ToolTable Tool = "table"
	ToolStage Tool = "stage"
	ToolWall  Tool = "wall"
	ToolAisle Tool = "aisle"
	ToolErase Tool = "erase"
)

// SanitizeTool maps unrecognised input to ToolSeat.
func SanitizeTool(s string) Tool {
	switch t := Tool(s); t {
	case ToolSeat, ToolTable, ToolStage, ToolWall, ToolAisle, ToolErase:
		return t
	}
	return ToolSeat
}

// CellType returns the type painted by the tool, or CellEmpty for erase.
func (t Tool) CellType() CellType { return ParseCellType(string(t)) }

// Mode governs what a pointer gesture does on the grid.
type Mode string

const (
	ModePaint  Mode = "paint"
	ModeSelect Mode = "select"
)

// SanitizeMode maps unrecognised input to ModePaint.
func SanitizeMode(s string) Mode {
	if m := Mode(s); m == ModeSelect {
		return m
	}
	return ModePaint
}
