package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/export"
)

// maxImportBytes bounds an uploaded envelope.
const maxImportBytes = 8 << 20

// Save writes the current layout to the storage slot.
func (h *LayoutHandler) Save(c echo.Context) error {
	meta, err := h.Editor.Save(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "savedAt": meta.SavedAt})
}

// Load applies the stored layout as one undoable action.
func (h *LayoutHandler) Load(c echo.Context) error {
	meta, err := h.Editor.Load(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "savedAt": meta.SavedAt, "revision": h.Editor.Revision()})
}

// Status reports whether a saved layout exists.
func (h *LayoutHandler) Status(c echo.Context) error {
	has, err := h.Editor.HasSaved(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hasSaved": has})
}

// ClearSaved empties the slot.  The layout being edited is kept.
func (h *LayoutHandler) ClearSaved(c echo.Context) error {
	if err := h.Editor.ClearSaved(c.Request().Context()); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Import takes a persistence envelope as the raw request body.  Comments and
// trailing commas are tolerated.
func (h *LayoutHandler) Import(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxImportBytes))
	if err != nil {
		return fail(c, apperr.New(apperr.CodeInvalid, err))
	}
	meta, err := h.Editor.Import(string(body))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "savedAt": meta.SavedAt, "revision": h.Editor.Revision()})
}

// ExportEnvelope downloads the layout as an importable envelope.
func (h *LayoutHandler) ExportEnvelope(c echo.Context) error {
	text, err := h.Editor.ExportText()
	if err != nil {
		return fail(c, err)
	}
	attach(c, export.Filename(h.eventName(), "layout", "json"))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(text))
}
