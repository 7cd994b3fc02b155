package service

import (
	"github.com/iliyamo/colmena-layout/internal/capacity"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/sales"
)

// CapacityView bundles every capacity figure of the current layout.
type CapacityView struct {
	Report    capacity.Report     `json:"report"`
	Available capacity.Available  `json:"available"`
	Quick     capacity.QuickStats `json:"quick"`
}

// Capacity aggregates the current layout.
func (e *Editor) Capacity() CapacityView {
	e.mu.Lock()
	defer e.mu.Unlock()
	cells := e.state.Cells
	return CapacityView{
		Report:    capacity.Compute(cells, e.capacity),
		Available: capacity.ComputeAvailable(cells, e.capacity),
		Quick:     capacity.Quick(cells, e.capacity),
	}
}

// Occupancy reports sell-state shares of the current layout.
func (e *Editor) Occupancy() capacity.Occupancy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return capacity.ComputeOccupancy(e.state.Cells)
}

// ZoneRanking lists zones by capacity, largest first.
func (e *Editor) ZoneRanking() []capacity.ZoneRank {
	e.mu.Lock()
	defer e.mu.Unlock()
	return capacity.RankZones(e.state.Cells, e.capacity)
}

// Catalog lists sellable units matching f in catalog order.
func (e *Editor) Catalog(f sales.Filter) []sales.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sales.FilterCatalog(sales.BuildCatalog(e.state), f)
}

// AvailableByZone lists available units of one zone, cheapest first.
func (e *Editor) AvailableByZone(zone string) []sales.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sales.AvailableByZone(sales.BuildCatalog(e.state), model.SanitizeZone(zone))
}

// CatalogSummary tallies the full catalog.
func (e *Editor) CatalogSummary() sales.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sales.SummarizeCatalog(sales.BuildCatalog(e.state))
}
