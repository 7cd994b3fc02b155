// Package capacity aggregates venue capacity and occupancy from a cell grid.
// Every function is a pure single pass over the cells; nothing is cached.
package capacity

import (
	"math"
	"sort"

	"github.com/iliyamo/colmena-layout/internal/model"
)

// Default persons per sellable unit.
const (
	DefaultPersonsPerSeat  = 1
	DefaultPersonsPerTable = 4
)

// Config sets how many people each sellable unit holds.  A nil field uses
// its default.  Any other value is honoured, zero included, and negatives
// count as zero.
type Config struct {
	PersonsPerSeat  *int `json:"personsPerSeat"`
	PersonsPerTable *int `json:"personsPerTable"`
}

// Persons returns a pointer to n for building a Config inline.
func Persons(n int) *int { return &n }

// DefaultConfig returns 1 person per seat and 4 per table.
func DefaultConfig() Config {
	return Config{PersonsPerSeat: Persons(DefaultPersonsPerSeat), PersonsPerTable: Persons(DefaultPersonsPerTable)}
}

// normalized returns a Config with both fields set.
func (c Config) normalized() Config {
	return Config{
		PersonsPerSeat:  Persons(personsOr(c.PersonsPerSeat, DefaultPersonsPerSeat)),
		PersonsPerTable: Persons(personsOr(c.PersonsPerTable, DefaultPersonsPerTable)),
	}
}

func personsOr(p *int, d int) int {
	if p == nil {
		return d
	}
	return max(*p, 0)
}

// Counts tallies units per sell-state.
type Counts struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Sold      int `json:"sold"`
	Blocked   int `json:"blocked"`
}

func (c *Counts) add(ss model.SellState) {
	switch ss {
	case model.SellReserved:
		c.Reserved++
	case model.SellSold:
		c.Sold++
	case model.SellBlocked:
		c.Blocked++
	default:
		c.Available++
	}
}

// Totals is the venue-wide tally.
type Totals struct {
	Seats         int `json:"seats"`
	Tables        int `json:"tables"`
	SeatCapacity  int `json:"seatCapacity"`
	TableCapacity int `json:"tableCapacity"`
	Capacity      int `json:"capacity"`
}

// ZoneCounts is the tally for one zone.
type ZoneCounts struct {
	Seats         int `json:"seats"`
	Tables        int `json:"tables"`
	Capacity      int `json:"capacity"`
	SeatCapacity  int `json:"seatCapacity"`
	TableCapacity int `json:"tableCapacity"`
	Counts
}

// Breakdown splits sell-state counts by unit type.
type Breakdown struct {
	Seats  Counts `json:"seats"`
	Tables Counts `json:"tables"`
}

// Report is the full capacity aggregation.  ByZone always holds every zone.
type Report struct {
	Totals      Totals                    `json:"totals"`
	ByZone      map[model.Zone]ZoneCounts `json:"byZone"`
	BySellState Counts                    `json:"bySellState"`
	Breakdown   Breakdown                 `json:"breakdown"`
	ConfigUsed  Config                    `json:"configUsed"`
}

// Compute aggregates seats, tables and capacity by zone and sell-state.
func Compute(cells []model.Cell, cfg Config) Report {
	cfg = cfg.normalized()
	perSeat, perTable := *cfg.PersonsPerSeat, *cfg.PersonsPerTable
	zones := make(map[model.Zone]*ZoneCounts, len(model.Zones()))
	for _, z := range model.Zones() {
		zones[z] = &ZoneCounts{}
	}

	var r Report
	for _, c := range cells {
		zone := zones[model.SanitizeZone(string(c.Zone))]
		ss := model.SanitizeSellState(string(c.SellState))

		switch c.Type {
		case model.CellSeat:
			r.Totals.Seats++
			r.Totals.SeatCapacity += perSeat
			zone.Seats++
			zone.SeatCapacity += perSeat
			r.Breakdown.Seats.add(ss)
		case model.CellTable:
			r.Totals.Tables++
			r.Totals.TableCapacity += perTable
			zone.Tables++
			zone.TableCapacity += perTable
			r.Breakdown.Tables.add(ss)
		default:
			continue
		}
		r.BySellState.add(ss)
		zone.Counts.add(ss)
	}

	r.Totals.Capacity = r.Totals.SeatCapacity + r.Totals.TableCapacity
	r.ByZone = make(map[model.Zone]ZoneCounts, len(zones))
	for z, zc := range zones {
		zc.Capacity = zc.SeatCapacity + zc.TableCapacity
		r.ByZone[z] = *zc
	}
	r.ConfigUsed = cfg
	return r
}

// Available is the capacity that can still be sold.
type Available struct {
	AvailableCapacity int `json:"availableCapacity"`
	AvailableSeats    int `json:"availableSeats"`
	AvailableTables   int `json:"availableTables"`
}

// ComputeAvailable counts only seats and tables whose sell-state is available.
func ComputeAvailable(cells []model.Cell, cfg Config) Available {
	cfg = cfg.normalized()
	var a Available
	for _, c := range cells {
		if model.SanitizeSellState(string(c.SellState)) != model.SellAvailable {
			continue
		}
		switch c.Type {
		case model.CellSeat:
			a.AvailableSeats++
		case model.CellTable:
			a.AvailableTables++
		}
	}
	a.AvailableCapacity = a.AvailableSeats*(*cfg.PersonsPerSeat) + a.AvailableTables*(*cfg.PersonsPerTable)
	return a
}

// QuickStats is the short summary shown in a stats bar.
type QuickStats struct {
	Seats    int `json:"seats"`
	Tables   int `json:"tables"`
	Capacity int `json:"capacity"`
}

// Quick returns seats, tables and total capacity.
func Quick(cells []model.Cell, cfg Config) QuickStats {
	t := Compute(cells, cfg).Totals
	return QuickStats{Seats: t.Seats, Tables: t.Tables, Capacity: t.Capacity}
}

// ZoneRank is one row of RankZones.
type ZoneRank struct {
	Zone     model.Zone `json:"zone"`
	Capacity int        `json:"capacity"`
	Seats    int        `json:"seats"`
	Tables   int        `json:"tables"`
}

// RankZones lists every zone by capacity, largest first.  Ties keep the
// zone display order.
func RankZones(cells []model.Cell, cfg Config) []ZoneRank {
	r := Compute(cells, cfg)
	out := make([]ZoneRank, 0, len(r.ByZone))
	for _, z := range model.Zones() {
		zc := r.ByZone[z]
		out = append(out, ZoneRank{Zone: z, Capacity: zc.Capacity, Seats: zc.Seats, Tables: zc.Tables})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Capacity > out[j].Capacity })
	return out
}

// Occupancy reports sell-state shares over seats and tables.  Percentages
// are rounded to the nearest integer and are all zero on an empty venue.
type Occupancy struct {
	TotalUnits     int `json:"totalUnits"`
	SoldUnits      int `json:"soldUnits"`
	ReservedUnits  int `json:"reservedUnits"`
	BlockedUnits   int `json:"blockedUnits"`
	AvailableUnits int `json:"availableUnits"`
	SoldPct        int `json:"soldPct"`
	ReservedPct    int `json:"reservedPct"`
	BlockedPct     int `json:"blockedPct"`
	AvailablePct   int `json:"availablePct"`
}

// ComputeOccupancy counts units by sell-state.
func ComputeOccupancy(cells []model.Cell) Occupancy {
	var o Occupancy
	for _, c := range cells {
		if !c.Type.Sellable() {
			continue
		}
		o.TotalUnits++
		switch model.SanitizeSellState(string(c.SellState)) {
		case model.SellSold:
			o.SoldUnits++
		case model.SellReserved:
			o.ReservedUnits++
		case model.SellBlocked:
			o.BlockedUnits++
		default:
			o.AvailableUnits++
		}
	}
	o.SoldPct = pct(o.SoldUnits, o.TotalUnits)
	o.ReservedPct = pct(o.ReservedUnits, o.TotalUnits)
	o.BlockedPct = pct(o.BlockedUnits, o.TotalUnits)
	o.AvailablePct = pct(o.AvailableUnits, o.TotalUnits)
	return o
}

func pct(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
