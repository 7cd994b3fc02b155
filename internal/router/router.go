// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/handler"
)

// Middlewares groups the optional route middleware.  Nil entries are
// skipped.
type Middlewares struct {
	// Cache wraps derived-data GETs.
	Cache echo.MiddlewareFunc
	// Limit wraps every mutating route.
	Limit echo.MiddlewareFunc
}

func (m Middlewares) cache() []echo.MiddlewareFunc { return nonNil(m.Cache) }
func (m Middlewares) limit() []echo.MiddlewareFunc { return nonNil(m.Limit) }

func nonNil(fns ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// RegisterRoutes exposes the health and metrics endpoints.  metrics may be nil.
func RegisterRoutes(e *echo.Echo, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterLayout registers the editing session API under /v1.
func RegisterLayout(e *echo.Echo, h *handler.LayoutHandler, mw Middlewares) {
	v1 := e.Group("/v1")

	// The layout itself changes on every mutation, so it is never cached.
	v1.GET("/layout", h.GetLayout)
	v1.GET("/layout/presets", h.ListPresets)

	w := v1.Group("", mw.limit()...)
	w.POST("/layout/paint", h.Paint)
	w.POST("/layout/tool", h.SetTool)
	w.POST("/layout/mode", h.SetMode)
	w.POST("/layout/selection", h.Select)
	w.POST("/layout/zone", h.ApplyZone)
	w.DELETE("/layout/zone", h.ClearZone)
	w.POST("/layout/price", h.ApplyPrice)
	w.DELETE("/layout/price", h.ClearPrice)
	w.POST("/layout/sell-state", h.ApplySellState)
	w.DELETE("/layout/sell-state", h.ResetSellState)
	w.POST("/layout/settings", h.UpdateSettings)
	w.POST("/layout/resize", h.Resize)
	w.POST("/layout/preset", h.ApplyPreset)
	w.POST("/layout/clear", h.Clear)
	w.POST("/layout/undo", h.Undo)
	w.POST("/layout/redo", h.Redo)

	w.POST("/storage/save", h.Save)
	w.POST("/storage/load", h.Load)
	w.POST("/storage/import", h.Import)
	w.DELETE("/storage", h.ClearSaved)
	v1.GET("/storage", h.Status)
	v1.GET("/storage/export", h.ExportEnvelope)

	w.POST("/orders", h.CreateOrder)
	w.POST("/orders/:id/items", h.AddOrderItem)
	w.DELETE("/orders/:id/items/:itemId", h.RemoveOrderItem)
	w.DELETE("/orders/:id", h.DeleteOrder)
	v1.GET("/orders/:id", h.GetOrder)

	r := v1.Group("", mw.cache()...)
	r.GET("/stats/capacity", h.Capacity)
	r.GET("/stats/occupancy", h.Occupancy)
	r.GET("/stats/zones", h.Zones)
	r.GET("/catalog", h.Catalog)
	r.GET("/catalog/available", h.Available)
	r.GET("/catalog/summary", h.CatalogSummary)
	r.GET("/exports/layout.json", h.LayoutJSON)
	r.GET("/exports/catalog.json", h.CatalogJSON)
	r.GET("/exports/summary.json", h.SummaryJSON)
	r.GET("/exports/layout.csv", h.LayoutCSV)
	r.GET("/exports/catalog.csv", h.CatalogCSV)
}
