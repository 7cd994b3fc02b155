package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/capacity"
	"github.com/iliyamo/colmena-layout/internal/export"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/sales"
	"github.com/iliyamo/colmena-layout/internal/storage"
)

// Export formats accepted by the export command.
const (
	formatLayoutJSON  = "layout-json"
	formatCatalogJSON = "catalog-json"
	formatSummaryJSON = "summary-json"
	formatLayoutCSV   = "layout-csv"
	formatCatalogCSV  = "catalog-csv"
)

var exportFormats = []string{formatLayoutJSON, formatCatalogJSON, formatSummaryJSON, formatLayoutCSV, formatCatalogCSV}

// now is swapped in tests.
var now = time.Now

type capacityFlags struct {
	perSeat  int
	perTable int
}

func (f *capacityFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.perSeat, "persons-per-seat", capacity.DefaultPersonsPerSeat, "people per seat")
	cmd.Flags().IntVar(&f.perTable, "persons-per-table", capacity.DefaultPersonsPerTable, "people per table")
}

func (f *capacityFlags) config() capacity.Config {
	return capacity.Config{PersonsPerSeat: capacity.Persons(f.perSeat), PersonsPerTable: capacity.Persons(f.perTable)}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "layoutctl",
		Short:         "Inspect and convert saved venue layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newStatsCmd(), newCatalogCmd(), newExportCmd())
	return root
}

// loadFile reads an envelope (JSON with comments tolerated) into a fresh
// State.
func loadFile(path string) (*layout.State, storage.Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, storage.Meta{}, fmt.Errorf("read %s: %w", path, err)
	}
	s := layout.NewState(layout.Overrides{})
	meta, err := storage.ImportText(string(raw), s)
	if err != nil {
		return nil, storage.Meta{}, describe(err)
	}
	return s, meta, nil
}

// describe turns coded failures into "CODE: message".
func describe(err error) error {
	if code := apperr.CodeOf(err); code != "" {
		return fmt.Errorf("%s: %s", code, apperr.Message(code))
	}
	return err
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file is a loadable layout envelope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, meta, err := loadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %dx%d grid, %d cells, saved %s\n",
				s.Rows, s.Cols, len(s.Cells), orDash(meta.SavedAt))
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var (
		cf     capacityFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print capacity and occupancy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadFile(args[0])
			if err != nil {
				return err
			}
			report := capacity.Compute(s.Cells, cf.config())
			occ := capacity.ComputeOccupancy(s.Cells)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{"capacity": report, "occupancy": occ})
			}
			writeStats(out, s, report, occ)
			return nil
		},
	}
	cf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeStats(w io.Writer, s *layout.State, r capacity.Report, o capacity.Occupancy) {
	fmt.Fprintf(w, "event:    %s\n", orDash(s.EventName))
	fmt.Fprintf(w, "grid:     %dx%d\n", s.Rows, s.Cols)
	fmt.Fprintf(w, "seats:    %d\n", r.Totals.Seats)
	fmt.Fprintf(w, "tables:   %d\n", r.Totals.Tables)
	fmt.Fprintf(w, "capacity: %d\n", r.Totals.Capacity)
	fmt.Fprintf(w, "sold:     %d%% (reserved %d%%, blocked %d%%, available %d%%)\n\n",
		o.SoldPct, o.ReservedPct, o.BlockedPct, o.AvailablePct)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ZONE\tSEATS\tTABLES\tCAPACITY")
	for _, z := range capacity.RankZones(s.Cells, r.ConfigUsed) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", z.Zone, z.Seats, z.Tables, z.Capacity)
	}
	tw.Flush()
}

func newCatalogCmd() *cobra.Command {
	var (
		asCSV bool
		zone  string
	)
	cmd := &cobra.Command{
		Use:   "catalog <file>",
		Short: "List the seats and tables for sale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asCSV {
				_, err := fmt.Fprintln(out, export.CatalogCSV(s))
				return err
			}
			items := sales.BuildCatalog(s)
			if zone != "" {
				if string(model.SanitizeZone(zone)) != zone {
					return fmt.Errorf("unknown zone %q", zone)
				}
				items = sales.FilterCatalog(items, sales.Filter{Zone: model.Zone(zone)})
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tROW\tCOL\tZONE\tSTATE\tPRICE")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%.0f %s\n",
					it.ID, it.Type, it.Row+1, it.Col+1, it.Zone, it.SellState, it.Price, sales.Currency)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print CSV")
	cmd.Flags().StringVar(&zone, "zone", "", "only list units of this zone")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		cf     capacityFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a layout as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadFile(args[0])
			if err != nil {
				return err
			}
			body, err := render(s, format, cf.config())
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return err
			}
			if output == "auto" {
				kind, ext, _ := strings.Cut(format, "-")
				output = export.Filename(s.EventName, kind, ext)
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatLayoutJSON, "one of "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVarP(&output, "out", "o", "", `write to this file instead of stdout ("auto" names it after the event)`)
	return cmd
}

func render(s *layout.State, format string, cfg capacity.Config) ([]byte, error) {
	t := now()
	switch format {
	case formatLayoutJSON:
		return export.LayoutJSON(s, cfg, t)
	case formatCatalogJSON:
		return export.CatalogJSON(s, t)
	case formatSummaryJSON:
		return export.SummaryJSON(s, cfg, t)
	case formatLayoutCSV:
		return []byte(export.LayoutCSV(s)), nil
	case formatCatalogCSV:
		return []byte(export.CatalogCSV(s)), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(exportFormats, ", "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
