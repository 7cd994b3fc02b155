// Package sales projects a layout into sellable units and stages orders
// against them.  It prepares a sale; it never charges anyone.
package sales

import (
	"math"
	"sort"
	"strconv"

	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/model"
)

// Currency is the currency every catalog price is expressed in.
const Currency = "COP"

// unnumberedSeat sorts seats without a number after every numbered seat.
const unnumberedSeat = math.MaxInt

// Item is one sellable unit: a seat or a table.
type Item struct {
	ID         string          `json:"id"`
	Index      int             `json:"index"`
	Type       model.CellType  `json:"type"`
	SeatNumber *int            `json:"seatNumber"`
	Row        int             `json:"row"`
	Col        int             `json:"col"`
	Zone       model.Zone      `json:"zone"`
	SellState  model.SellState `json:"sellState"`
	Price      float64         `json:"price"`
}

// itemID is "seat-<number>" for numbered seats, "seat-<index>" for
// unnumbered ones and "table-<index>" for tables.
func itemID(c model.Cell, index int) string {
	if c.Type == model.CellSeat {
		if c.SeatNumber > 0 {
			return "seat-" + strconv.Itoa(c.SeatNumber)
		}
		return "seat-" + strconv.Itoa(index)
	}
	return "table-" + strconv.Itoa(index)
}

// BuildCatalog lists every seat and table of s with its resolved price.
// Seats come first ordered by seat number (unnumbered last), then tables
// ordered by index.
func BuildCatalog(s *layout.State) []Item {
	items := make([]Item, 0)
	for i, c := range s.Cells {
		if !c.Type.Sellable() {
			continue
		}
		row, col := model.IndexToRC(i, s.Cols)
		price, _ := s.EffectivePrice(c)
		it := Item{
			ID:        itemID(c, i),
			Index:     i,
			Type:      c.Type,
			Row:       row,
			Col:       col,
			Zone:      model.SanitizeZone(string(c.Zone)),
			SellState: model.SanitizeSellState(string(c.SellState)),
			Price:     math.Max(0, price),
		}
		if c.Type == model.CellSeat && c.SeatNumber > 0 {
			n := c.SeatNumber
			it.SeatNumber = &n
		}
		items = append(items, it)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Type != b.Type {
			return a.Type == model.CellSeat
		}
		if a.Type == model.CellSeat {
			an, bn := seatKey(a), seatKey(b)
			if an != bn {
				return an < bn
			}
		}
		return a.Index < b.Index
	})
	return items
}

func seatKey(it Item) int {
	if it.SeatNumber == nil {
		return unnumberedSeat
	}
	return *it.SeatNumber
}

// Filter narrows a catalog.  Zero-valued fields do not filter.
type Filter struct {
	Zone      model.Zone
	Type      model.CellType
	SellState model.SellState
	MinPrice  *float64
	MaxPrice  *float64
}

// FilterCatalog returns the items matching every set criterion, in order.
func FilterCatalog(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Zone != "" && it.Zone != f.Zone {
			continue
		}
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.SellState != "" && it.SellState != f.SellState {
			continue
		}
		if f.MinPrice != nil && it.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && it.Price > *f.MaxPrice {
			continue
		}
		out = append(out, it)
	}
	return out
}

// StateCounts tallies items per sell-state.
type StateCounts struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
	Blocked   int `json:"blocked"`
}

func (c *StateCounts) add(ss model.SellState) {
	switch ss {
	case model.SellAvailable:
		c.Available++
	case model.SellReserved:
		c.Reserved++
	case model.SellSold:
		c.Sold++
	case model.SellBlocked:
		c.Blocked++
	}
}

// ZoneSummary is the per-zone part of a Summary.
type ZoneSummary struct {
	Total int `json:"total"`
	StateCounts
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
}

// Summary tallies a catalog by sell-state, type and zone.  ByZone only holds
// zones that appear in the catalog.
type Summary struct {
	Total int `json:"total"`
	StateCounts
	Seats  int                     `json:"seats"`
	Tables int                     `json:"tables"`
	ByZone map[string]*ZoneSummary `json:"byZone"`
}

// SummarizeCatalog computes a Summary in one pass.
func SummarizeCatalog(items []Item) Summary {
	sum := Summary{ByZone: make(map[string]*ZoneSummary)}
	for _, it := range items {
		sum.Total++
		sum.StateCounts.add(it.SellState)
		switch it.Type {
		case model.CellSeat:
			sum.Seats++
		case model.CellTable:
			sum.Tables++
		}

		key := string(it.Zone)
		if key == "" {
			key = string(model.ZoneNone)
		}
		z, ok := sum.ByZone[key]
		if !ok {
			z = &ZoneSummary{}
			sum.ByZone[key] = z
		}
		z.Total++
		z.StateCounts.add(it.SellState)
		if z.MinPrice == nil || it.Price < *z.MinPrice {
			z.MinPrice = model.PriceOf(it.Price)
		}
		if z.MaxPrice == nil || it.Price > *z.MaxPrice {
			z.MaxPrice = model.PriceOf(it.Price)
		}
	}
	return sum
}

// AvailableByZone returns the available items of one zone, cheapest first.
func AvailableByZone(items []Item, zone model.Zone) []Item {
	out := FilterCatalog(items, Filter{Zone: zone, SellState: model.SellAvailable})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// FindItem looks an item up by id.
func FindItem(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
