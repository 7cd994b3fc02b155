package export

import (
	"strconv"
	"strings"

	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/sales"
)

const (
	layoutCSVHeader  = "index,row,col,type,seatNumber,zone,price,sellState"
	catalogCSVHeader = "id,type,seatNumber,index,row,col,zone,sellState,price"
)

// quote always wraps v in double quotes and doubles any quote inside it.
// encoding/csv only quotes when it has to, and consumers of these files
// expect every field quoted.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func writeRow(b *strings.Builder, fields ...string) {
	b.WriteByte('\n')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(f))
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// LayoutCSV lists every non-empty cell, including non-sellable ones.  Rows
// are separated by "\n" with no trailing newline.
func LayoutCSV(s *layout.State) string {
	var b strings.Builder
	b.WriteString(layoutCSVHeader)
	for i, c := range s.Cells {
		if c.IsEmpty() {
			continue
		}
		row, col := model.IndexToRC(i, s.Cols)
		seat, price := "", ""
		if c.SeatNumber > 0 {
			seat = strconv.Itoa(c.SeatNumber)
		}
		if c.Price != nil {
			price = formatFloat(*c.Price)
		}
		writeRow(&b,
			strconv.Itoa(i),
			strconv.Itoa(row),
			strconv.Itoa(col),
			string(c.Type),
			seat,
			string(model.SanitizeZone(string(c.Zone))),
			price,
			string(model.SanitizeSellState(string(c.SellState))),
		)
	}
	return b.String()
}

// CatalogCSV lists every sellable unit in catalog order.
func CatalogCSV(s *layout.State) string {
	var b strings.Builder
	b.WriteString(catalogCSVHeader)
	for _, it := range sales.BuildCatalog(s) {
		seat := ""
		if it.SeatNumber != nil {
			seat = strconv.Itoa(*it.SeatNumber)
		}
		writeRow(&b,
			it.ID,
			string(it.Type),
			seat,
			strconv.Itoa(it.Index),
			strconv.Itoa(it.Row),
			strconv.Itoa(it.Col),
			string(it.Zone),
			string(it.SellState),
			formatFloat(it.Price),
		)
	}
	return b.String()
}
