package camp

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	api.GET("/camps", h.List, auth.RequireRole("hospital", "donor", "bank"))
	api.GET("/camps/:id", h.Get, auth.RequireRole("hospital", "donor", "bank"))
	api.POST("/camps", h.Create, auth.RequireRole("hospital", "bank"))
	api.PUT("/camps/:id", h.Update, auth.RequireRole("hospital", "bank"))
	api.DELETE("/camps/:id", h.Delete, auth.RequireRole("hospital", "bank"))
	api.POST("/camps/:id/registrations", h.RegisterDonor, auth.RequireRole("donor"))
	api.GET("/camps/:id/registrations", h.Registrations, auth.RequireRole("hospital", "bank"))
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
	case errors.Is(err, ErrAlreadyRegistered):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Create(c echo.Context) error {
	var camp Camp
	if err := c.Bind(&camp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), actor, &camp); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, camp)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	camp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var camp Camp
	if err := c.Bind(&camp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	camp.ID = id
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), actor, &camp); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, camp)
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

func (h *Handler) RegisterDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.RegisterDonor(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Registrations(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.Registrations(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}
