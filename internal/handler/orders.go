package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type addItemReq struct {
	ItemID string `json:"itemId" validate:"required"`
}

// CreateOrder stages an empty order.
func (h *LayoutHandler) CreateOrder(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.Editor.CreateOrder())
}

// GetOrder returns the checkout summary, recomputed against current prices.
func (h *LayoutHandler) GetOrder(c echo.Context) error {
	sum, err := h.Editor.Checkout(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *LayoutHandler) AddOrderItem(c echo.Context) error {
	var req addItemReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	o, err := h.Editor.AddToOrder(c.Param("id"), req.ItemID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *LayoutHandler) RemoveOrderItem(c echo.Context) error {
	o, err := h.Editor.RemoveFromOrder(c.Param("id"), c.Param("itemId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *LayoutHandler) DeleteOrder(c echo.Context) error {
	if err := h.Editor.DeleteOrder(c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
