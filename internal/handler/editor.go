package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colmena-layout/internal/apperr"
	"github.com/iliyamo/colmena-layout/internal/model"
	"github.com/iliyamo/colmena-layout/internal/service"
)

type paintReq struct {
	Tool    string `json:"tool" validate:"omitempty,tool"`
	Indices []int  `json:"indices" validate:"dive,min=0"`
}

type toolReq struct {
	Tool string `json:"tool" validate:"required,tool"`
}

type modeReq struct {
	Mode string `json:"mode" validate:"required,oneof=paint select"`
}

type selectionReq struct {
	Op      string `json:"op" validate:"omitempty,oneof=replace add toggle type clear"`
	Indices []int  `json:"indices" validate:"dive,min=0"`
	Type    string `json:"type" validate:"omitempty,celltype"`
}

type zoneReq struct {
	Zone string `json:"zone" validate:"required,zone"`
}

type priceReq struct {
	Price *float64 `json:"price" validate:"required,min=0"`
}

type sellStateReq struct {
	SellState string `json:"sellState" validate:"required,sellstate"`
}

type resizeReq struct {
	Rows int `json:"rows" validate:"required,min=1"`
	Cols int `json:"cols" validate:"required,min=1"`
}

type presetReq struct {
	Name string `json:"name" validate:"required"`
}

// GetLayout returns the snapshot, revision and history depth.
func (h *LayoutHandler) GetLayout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.View())
}

// Paint applies the tool to every index as one undoable gesture.
func (h *LayoutHandler) Paint(c echo.Context) error {
	var req paintReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.Paint(req.Tool, req.Indices))
}

func (h *LayoutHandler) SetTool(c echo.Context) error {
	var req toolReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.SetTool(req.Tool))
}

func (h *LayoutHandler) SetMode(c echo.Context) error {
	var req modeReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.SetMode(req.Mode))
}

// Select changes the selection; op defaults to replace.
func (h *LayoutHandler) Select(c echo.Context) error {
	var req selectionReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	if req.Op == string(service.SelectType) && req.Type == "" {
		return fail(c, apperr.ErrInvalid)
	}
	m, err := h.Editor.Select(service.SelectionOp(req.Op), req.Indices, req.Type)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *LayoutHandler) ApplyZone(c echo.Context) error {
	var req zoneReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.ApplyZone(req.Zone))
}

func (h *LayoutHandler) ClearZone(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.ClearZone())
}

func (h *LayoutHandler) ApplyPrice(c echo.Context) error {
	var req priceReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	m, err := h.Editor.ApplyPrice(*req.Price)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *LayoutHandler) ClearPrice(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.ClearPrice())
}

func (h *LayoutHandler) ApplySellState(c echo.Context) error {
	var req sellStateReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.ApplySellState(req.SellState))
}

func (h *LayoutHandler) ResetSellState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.ResetSellState())
}

// UpdateSettings applies the fields present in the body; absent fields are
// left alone.
func (h *LayoutHandler) UpdateSettings(c echo.Context) error {
	var req service.Settings
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.New(apperr.CodeInvalid, err))
	}
	return c.JSON(http.StatusOK, h.Editor.UpdateSettings(req))
}

// Resize replaces the grid.  Dimensions outside the supported range are
// clamped rather than rejected.
func (h *LayoutHandler) Resize(c echo.Context) error {
	var req resizeReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.Editor.Resize(req.Rows, req.Cols))
}

// ListPresets returns the grid presets accepted by ApplyPreset.
func (h *LayoutHandler) ListPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Editor.Presets()})
}

func (h *LayoutHandler) ApplyPreset(c echo.Context) error {
	var req presetReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	m, err := h.Editor.ApplyPreset(req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *LayoutHandler) Clear(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Editor.Clear())
}

// Undo reports applied=false when the undo stack is empty.
func (h *LayoutHandler) Undo(c echo.Context) error {
	m, ok := h.Editor.Undo()
	return c.JSON(http.StatusOK, echo.Map{"applied": ok, "mutation": m})
}

func (h *LayoutHandler) Redo(c echo.Context) error {
	m, ok := h.Editor.Redo()
	return c.JSON(http.StatusOK, echo.Map{"applied": ok, "mutation": m})
}

// cellTypeParam reads an optional cell type filter; "" means no filter.
func cellTypeParam(raw string) (model.CellType, error) {
	if raw == "" {
		return model.CellEmpty, nil
	}
	t := model.ParseCellType(raw)
	if !t.Sellable() {
		return model.CellEmpty, apperr.ErrInvalid
	}
	return t, nil
}
