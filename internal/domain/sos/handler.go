package sos

import (
	"errors"
	"net/http"
	"strings"

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
	api.GET("/sos-requests", h.List, auth.RequireRole("hospital", "donor", "bank"))
	api.GET("/sos-requests/visible", h.ListVisible, auth.RequireRole("donor"))
	api.GET("/sos-requests/:id", h.Get, auth.RequireRole("hospital", "donor", "bank"))
	api.POST("/sos-requests", h.Create, auth.RequireRole("hospital"))
	api.POST("/sos-requests/import", h.Import, auth.RequireRole("hospital"))
	api.POST("/sos-requests/:id/response", h.Respond, auth.RequireRole("donor"))
	api.POST("/sos-requests/:id/fulfill", h.MarkFulfilled, auth.RequireRole("hospital"))
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) error {
	var ve *ValidationError
	var te *TransitionError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.As(err, &te):
		return echo.NewHTTPError(http.StatusConflict, te.Error())
	case errors.Is(err, ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Create(c echo.Context) error {
	var r SosRequest
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), actor, &r); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Status:     Status(c.QueryParam("status")),
		HospitalID: c.QueryParam("hospital_id"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// ListVisible returns the compatibility-filtered pending feed for the donor
// blood group given in the group query parameter.
func (h *Handler) ListVisible(c echo.Context) error {
	pg := pagination.FromContext(c)
	group, ok := blood.Parse(c.QueryParam("group"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or missing blood group")
	}
	items, total, err := h.svc.VisibleTo(c.Request().Context(), group, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Respond(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var resp DonorResponse
	if err := c.Bind(&resp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.Respond(c.Request().Context(), actor, id, &resp)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}

// Import accepts a CSV or XLSX upload in the "file" form field and creates
// one request per row.
func (h *Handler) Import(c echo.Context) error {
	actor := auth.UserIDFromContext(c.Request().Context())
	if actor == "" {
		return httpError(ErrNotAuthenticated)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	imp := NewImporter(h.svc)
	var result *ImportResult
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		result, err = imp.ImportXLSX(c.Request().Context(), actor, src)
	} else {
		result, err = imp.ImportCSV(c.Request().Context(), actor, src)
	}
	if err != nil {
		// Malformed uploads are a client problem.
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) MarkFulfilled(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	r, err := h.svc.MarkFulfilled(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, r)
}
