package payroll

import (
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/rest"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Handler struct {
	svc  *Service
	lang validation.Negotiator
}

func NewHandler(svc *Service, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, lang: lang}
}

// RegisterRoutes mounts payroll under managers only; pay data is not visible
// to other staff.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/payrolls", auth.RequireRole(auth.RoleManager))
	g.GET("", h.ListPayrolls)
	g.POST("", h.CreatePayroll)
	g.GET("/:id", h.GetPayroll)
	g.PUT("/:id", h.UpdatePayroll)
	g.DELETE("/:id", h.DeletePayroll)
}

func (h *Handler) CreatePayroll(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreatePayroll)
}

func (h *Handler) GetPayroll(c echo.Context) error {
	return rest.Show(c, h.svc.GetPayroll)
}

func (h *Handler) ListPayrolls(c echo.Context) error {
	return rest.List(c, h.svc.SearchPayrolls)
}

func (h *Handler) UpdatePayroll(c echo.Context) error {
	return rest.Update(c, h.lang, h.svc.UpdatePayroll)
}

func (h *Handler) DeletePayroll(c echo.Context) error {
	return rest.Delete(c, h.lang, h.svc.DeletePayroll)
}
