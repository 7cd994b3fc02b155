// Package handler exposes the editing session over HTTP.  Handlers are thin:
// they bind and validate the request, call the service.Editor and translate
// result codes into HTTP statuses.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/service"
)

// codeNotFound is reported for unknown orders.  It is not a persistence
// result code, so it lives here rather than in apperr.
const codeNotFound apperr.Code = "NOT_FOUND"

// LayoutHandler bundles the editor session and a clock for exports.
type LayoutHandler struct {
	Editor *service.Editor
	Now    func() time.Time
}

// NewLayoutHandler panics when the editor is nil, matching how the router
// expects fully wired handlers.
func NewLayoutHandler(ed *service.Editor) *LayoutHandler {
	if ed == nil {
		panic("nil editor passed to NewLayoutHandler")
	}
	return &LayoutHandler{Editor: ed, Now: time.Now}
}

// statusOf maps a failure to its HTTP status and response code.
func statusOf(err error) (int, apperr.Code) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrUnknownPreset):
		return http.StatusBadRequest, apperr.CodeInvalid
	}
	code := apperr.CodeOf(err)
	switch code {
	case apperr.CodeNoData:
		return http.StatusNotFound, code
	case apperr.CodeInvalidJSON, apperr.CodeInvalid:
		return http.StatusBadRequest, code
	case apperr.CodeUnsupportedVersion, apperr.CodeMissingSnapshot, apperr.CodeApplyFailed:
		return http.StatusUnprocessableEntity, code
	case apperr.CodeNotAvailable, apperr.CodeNotInOrder:
		return http.StatusConflict, code
	case apperr.CodeStorage:
		return http.StatusServiceUnavailable, code
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// fail writes the uniform error body {"ok":false,"error":CODE,"message":...}.
func fail(c echo.Context, err error) error {
	status, code := statusOf(err)
	msg := apperr.Message(code)
	switch code {
	case codeNotFound:
		msg = "Order not found."
	case "INTERNAL":
		c.Logger().Errorf("handler: %v", err)
	}
	return c.JSON(status, echo.Map{"ok": false, "error": code, "message": msg})
}

// bindValid binds the body into req and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.New(apperr.CodeInvalid, err)
	}
	if err := c.Validate(req); err != nil {
		return apperr.New(apperr.CodeInvalid, err)
	}
	return nil
}
