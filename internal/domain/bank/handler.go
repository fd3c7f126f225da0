package bank

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/banks", h.List, auth.RequireRole("hospital", "donor", "bank"))
	api.GET("/banks/:id", h.Get, auth.RequireRole("hospital", "donor", "bank"))
	api.POST("/banks", h.Register, auth.RequireRole("bank"))
	api.PUT("/banks/:id", h.Update, auth.RequireRole("bank"))
	api.DELETE("/banks/:id", h.Delete, auth.RequireRole("bank"))
	api.GET("/banks/:id/stock", h.Stock, auth.RequireRole("hospital", "donor", "bank"))
	api.PUT("/banks/:id/stock/:group", h.SetStock, auth.RequireRole("bank"))
	api.POST("/banks/:id/stock/:group/adjust", h.AdjustStock, auth.RequireRole("bank"))
}

func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Register(c echo.Context) error {
	var b Bank
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Register(c.Request().Context(), actor, &b); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Bank
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), actor, &b); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("city"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Stock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.Stock(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

type stockBody struct {
	Units int `json:"units"`
}

func (h *Handler) SetStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	group, ok := blood.Parse(c.Param("group"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blood group")
	}
	var body stockBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	e, err := h.svc.SetStock(c.Request().Context(), actor, id, group, body.Units)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

type adjustBody struct {
	Delta int `json:"delta"`
}

func (h *Handler) AdjustStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	group, ok := blood.Parse(c.Param("group"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blood group")
	}
	var body adjustBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	e, err := h.svc.AdjustStock(c.Request().Context(), actor, id, group, body.Delta)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}
