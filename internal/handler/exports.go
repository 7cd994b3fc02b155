package handler

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/export"
	"github.com/iliyamo/colmena-layout/internal/layout"
)

const mimeCSV = "text/csv; charset=utf-8"

func attach(c echo.Context, filename string) {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

func (h *LayoutHandler) eventName() string {
	var name string
	h.Editor.Read(func(s *layout.State) { name = s.EventName })
	return name
}

// render runs fn under the editor lock and sends its output as a download.
func (h *LayoutHandler) render(c echo.Context, kind, ext, contentType string, fn func(s *layout.State) ([]byte, error)) error {
	var (
		body []byte
		name string
		err  error
	)
	h.Editor.Read(func(s *layout.State) {
		name = s.EventName
		body, err = fn(s)
	})
	if err != nil {
		return fail(c, err)
	}
	attach(c, export.Filename(name, kind, ext))
	return c.Blob(http.StatusOK, contentType, body)
}

func (h *LayoutHandler) LayoutJSON(c echo.Context) error {
	cfg := h.Editor.CapacityConfig()
	return h.render(c, "layout", "json", echo.MIMEApplicationJSONCharsetUTF8, func(s *layout.State) ([]byte, error) {
		return export.LayoutJSON(s, cfg, h.Now())
	})
}

func (h *LayoutHandler) CatalogJSON(c echo.Context) error {
	return h.render(c, "catalog", "json", echo.MIMEApplicationJSONCharsetUTF8, func(s *layout.State) ([]byte, error) {
		return export.CatalogJSON(s, h.Now())
	})
}

func (h *LayoutHandler) SummaryJSON(c echo.Context) error {
	cfg := h.Editor.CapacityConfig()
	return h.render(c, "summary", "json", echo.MIMEApplicationJSONCharsetUTF8, func(s *layout.State) ([]byte, error) {
		return export.SummaryJSON(s, cfg, h.Now())
	})
}

func (h *LayoutHandler) LayoutCSV(c echo.Context) error {
	return h.render(c, "layout", "csv", mimeCSV, func(s *layout.State) ([]byte, error) {
		return []byte(export.LayoutCSV(s)), nil
	})
}

func (h *LayoutHandler) CatalogCSV(c echo.Context) error {
	return h.render(c, "catalog", "csv", mimeCSV, func(s *layout.State) ([]byte, error) {
		return []byte(export.CatalogCSV(s)), nil
	})
}
