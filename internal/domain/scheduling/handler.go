package scheduling

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
	"github.com/optiretail/optiretail/pkg/pagination"
)

// includes lists the relations an appointment response can embed.
var includes = []string{"patient"}

type Handler struct {
	svc  *Service
	lang validation.Negotiator
}

func NewHandler(svc *Service, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, lang: lang}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	staff.GET("/appointments", h.ListAppointments)
	staff.POST("/appointments", h.CreateAppointment)
	staff.GET("/appointments/:id", h.GetAppointment)
	staff.PUT("/appointments/:id", h.UpdateAppointment)
	staff.DELETE("/appointments/:id", h.DeleteAppointment)
	staff.POST("/appointments/:id/start", h.StartAppointment)
	staff.POST("/appointments/:id/cancel", h.CancelAppointment)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	a, err := h.svc.CreateAppointment(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a.ToResource(nil))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.ToResource(in))
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	items, total, err := h.svc.SearchAppointments(c.Request().Context(), db.ExtractParams(c), in, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, in), total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	return h.mutate(c, h.svc.UpdateAppointment)
}

func (h *Handler) StartAppointment(c echo.Context) error {
	return h.mutate(c, h.svc.StartAppointment)
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	return h.mutate(c, h.svc.CancelAppointment)
}

// mutate runs an operation addressed by the :id route parameter.
func (h *Handler) mutate(c echo.Context, op func(ctx context.Context, id uuid.UUID, req validation.Request) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	a, err := op(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.ToResource(nil))
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
