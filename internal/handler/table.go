package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
)

// TableHandler exposes the table registry. Browsing is public; create,
// update and delete are registered behind the ADMIN role.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	if tables == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables}
}

// List handles GET /v1/tables.
func (h *TableHandler) List(c echo.Context) error {
	items, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []*model.Table{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	table, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": table})
}

// Create handles POST /v1/tables. Name and capacity pass through the
// domain's validating constructors, so malformed values are rejected with
// 400 before any row is written. New tables start AVAILABLE.
func (h *TableHandler) Create(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name, err := model.NewTableName(body.Name)
	if err != nil {
		return writeError(c, err)
	}
	capacity, err := model.NewCapacity(body.Capacity)
	if err != nil {
		return writeError(c, err)
	}
	table := model.NewTable(name, capacity)
	if err := h.Tables.Create(c.Request().Context(), table); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": table})
}

// Update handles PATCH /v1/tables/:id. The update is partial: fields
// absent from the body retain their stored values.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body struct {
		Name     *string `json:"name"`
		Capacity *int    `json:"capacity"`
		Status   *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	table, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if body.Name != nil {
		name, err := model.NewTableName(*body.Name)
		if err != nil {
			return writeError(c, err)
		}
		table.Name = name
	}
	if body.Capacity != nil {
		capacity, err := model.NewCapacity(*body.Capacity)
		if err != nil {
			return writeError(c, err)
		}
		table.Capacity = capacity
	}
	if body.Status != nil {
		status := model.TableStatus(*body.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table status"})
		}
		table.Status = status
	}
	if err := h.Tables.Update(ctx, table); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": table})
}

// Delete handles DELETE /v1/tables/:id. Tables still referenced by active
// reservations cannot be removed; the repository reports that as a
// conflict, mapped to 409.
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
