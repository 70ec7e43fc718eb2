package clinical

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
	"github.com/optiretail/optiretail/pkg/pagination"
)

var includes = []string{"appointment"}

type Handler struct {
	svc  *Service
	lang validation.Negotiator
}

func NewHandler(svc *Service, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, lang: lang}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	staff.GET("/prescriptions", h.ListPrescriptions)
	staff.POST("/prescriptions", h.CreatePrescription)
	staff.GET("/prescriptions/:id", h.GetPrescription)
	staff.PUT("/prescriptions/:id", h.UpdatePrescription)
	staff.DELETE("/prescriptions/:id", h.DeletePrescription)
	staff.POST("/prescriptions/:id/restore", h.RestorePrescription)
}

func (h *Handler) CreatePrescription(c echo.Context) error {
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	p, err := h.svc.CreatePrescription(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p.ToResource(nil))
}

func (h *Handler) GetPrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPrescription(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.ToResource(in))
}

func (h *Handler) ListPrescriptions(c echo.Context) error {
	pg := pagination.FromContext(c)
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	items, total, err := h.svc.SearchPrescriptions(c.Request().Context(), db.ExtractParams(c), in, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, in), total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) UpdatePrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	p, err := h.svc.UpdatePrescription(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.ToResource(nil))
}

func (h *Handler) DeletePrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePrescription(c.Request().Context(), id, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RestorePrescription(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	p, err := h.svc.RestorePrescription(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.ToResource(nil))
}
