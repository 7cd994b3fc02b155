package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/sales"
)

func (h *LayoutHandler) Capacity(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.Capacity())
}

func (h *LayoutHandler) Occupancy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.Occupancy())
}

func (h *LayoutHandler) Zones(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Editor.ZoneRanking()})
}

// Catalog lists sale units.  Optional query filters: zone, type, sellState,
// minPrice, maxPrice.  Unknown enum values are rejected.
func (h *LayoutHandler) Catalog(c echo.Context) error {
	f, err := catalogFilter(c)
	if err != nil {
		return fail(c, err)
	}
	items := h.Editor.Catalog(f)
	return c.JSON(http.StatusOK, echo.Map{"currency": sales.Currency, "total": len(items), "items": items})
}

// Available lists the available units of ?zone=, cheapest first.
func (h *LayoutHandler) Available(c echo.Context) error {
	zone := c.QueryParam("zone")
	if string(model.SanitizeZone(zone)) != zone {
		return fail(c, apperr.ErrInvalid)
	}
	return c.JSON(http.StatusOK, echo.Map{"zone": zone, "items": h.Editor.AvailableByZone(zone)})
}

func (h *LayoutHandler) CatalogSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.CatalogSummary())
}

func catalogFilter(c echo.Context) (sales.Filter, error) {
	var f sales.Filter
	if z := c.QueryParam("zone"); z != "" {
		if string(model.SanitizeZone(z)) != z {
			return f, apperr.ErrInvalid
		}
		f.Zone = model.Zone(z)
	}
	t, err := cellTypeParam(c.QueryParam("type"))
	if err != nil {
		return f, err
	}
	f.Type = t
	if ss := c.QueryParam("sellState"); ss != "" {
		if string(model.SanitizeSellState(ss)) != ss {
			return f, apperr.ErrInvalid
		}
		f.SellState = model.SellState(ss)
	}
	if f.MinPrice, err = priceParam(c.QueryParam("minPrice")); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(c.QueryParam("maxPrice")); err != nil {
		return f, err
	}
	return f, nil
}

func priceParam(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.New(apperr.CodeInvalid, err)
	}
	return &v, nil
}
