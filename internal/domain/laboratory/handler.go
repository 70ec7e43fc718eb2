package laboratory

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	staff.GET("/laboratories", h.ListLaboratories)
	staff.POST("/laboratories", h.CreateLaboratory)
	staff.GET("/laboratories/:id", h.GetLaboratory)
	staff.PUT("/laboratories/:id", h.UpdateLaboratory)
	staff.DELETE("/laboratories/:id", h.DeleteLaboratory)

	staff.GET("/lab-orders", h.ListOrders)
	staff.POST("/lab-orders", h.CreateOrder)
	staff.GET("/lab-orders/:id", h.GetOrder)
	staff.PUT("/lab-orders/:id", h.UpdateOrder)
	staff.DELETE("/lab-orders/:id", h.DeleteOrder)
}

func (h *Handler) CreateLaboratory(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreateLaboratory)
}

func (h *Handler) GetLaboratory(c echo.Context) error {
	return rest.Show(c, h.svc.GetLaboratory)
}

func (h *Handler) ListLaboratories(c echo.Context) error {
	return rest.List(c, h.svc.SearchLaboratories)
}

func (h *Handler) UpdateLaboratory(c echo.Context) error {
	return rest.Update(c, h.lang, h.svc.UpdateLaboratory)
}

func (h *Handler) DeleteLaboratory(c echo.Context) error {
	return rest.Delete(c, h.lang, h.svc.DeleteLaboratory)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreateOrder)
}

func (h *Handler) GetOrder(c echo.Context) error {
	return rest.Show(c, h.svc.GetOrder)
}

func (h *Handler) ListOrders(c echo.Context) error {
	return rest.List(c, h.svc.SearchOrders)
}

func (h *Handler) UpdateOrder(c echo.Context) error {
	return rest.Update(c, h.lang, h.svc.UpdateOrder)
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	return rest.Delete(c, h.lang, h.svc.DeleteOrder)
}
