// Package export renders a layout as downloadable JSON and CSV documents.
package export

import (
	"encoding/json"
	"time"

	"github.com/iliyamo/colmena-layout/internal/capacity"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/sales"
	"github.com/iliyamo/colmena-layout/internal/storage"
)

// Version of every export document.
const Version = 1

const exportedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// header is shared by every JSON export.
type header struct {
	App        string `json:"app"`
	Type       string `json:"type"`
	Version    int    `json:"version"`
	ExportedAt string `json:"exportedAt"`
	EventName  string `json:"eventName"`
}

func newHeader(kind string, s *layout.State, now time.Time) header {
	return header{
		App:        storage.AppID,
		Type:       kind,
		Version:    Version,
		ExportedAt: now.UTC().Format(exportedAtLayout),
		EventName:  s.EventName,
	}
}

// Layout is the full layout export with derived metrics inline.
type Layout struct {
	header
	Snapshot  layout.Snapshot    `json:"snapshot"`
	Metrics   capacity.Report    `json:"metrics"`
	Occupancy capacity.Occupancy `json:"occupancy"`
}

// Catalog is the sellable catalog export.
type Catalog struct {
	header
	Currency string        `json:"currency"`
	Items    []sales.Item  `json:"items"`
	Summary  sales.Summary `json:"summary"`
}

// Summary is the metrics-only report export.
type Summary struct {
	header
	Capacity       capacity.Report    `json:"capacity"`
	Occupancy      capacity.Occupancy `json:"occupancy"`
	CatalogSummary sales.Summary      `json:"catalogSummary"`
}

// BuildLayout assembles the layout export document.
func BuildLayout(s *layout.State, cfg capacity.Config, now time.Time) Layout {
	return Layout{
		header:    newHeader("layout", s, now),
		Snapshot:  s.Snapshot(),
		Metrics:   capacity.Compute(s.Cells, cfg),
		Occupancy: capacity.ComputeOccupancy(s.Cells),
	}
}

// BuildCatalog assembles the catalog export document.
func BuildCatalog(s *layout.State, now time.Time) Catalog {
	items := sales.BuildCatalog(s)
	return Catalog{
		header:   newHeader("catalog", s, now),
		Currency: sales.Currency,
		Items:    items,
		Summary:  sales.SummarizeCatalog(items),
	}
}

// BuildSummary assembles the summary export document.
func BuildSummary(s *layout.State, cfg capacity.Config, now time.Time) Summary {
	return Summary{
		header:         newHeader("summary", s, now),
		Capacity:       capacity.Compute(s.Cells, cfg),
		Occupancy:      capacity.ComputeOccupancy(s.Cells),
		CatalogSummary: sales.SummarizeCatalog(sales.BuildCatalog(s)),
	}
}

// LayoutJSON renders BuildLayout as indented JSON.
func LayoutJSON(s *layout.State, cfg capacity.Config, now time.Time) ([]byte, error) {
	return json.MarshalIndent(BuildLayout(s, cfg, now), "", "  ")
}

// CatalogJSON renders BuildCatalog as indented JSON.
func CatalogJSON(s *layout.State, now time.Time) ([]byte, error) {
	return json.MarshalIndent(BuildCatalog(s, now), "", "  ")
}

// SummaryJSON renders BuildSummary as indented JSON.
func SummaryJSON(s *layout.State, cfg capacity.Config, now time.Time) ([]byte, error) {
	return json.MarshalIndent(BuildSummary(s, cfg, now), "", "  ")
}
