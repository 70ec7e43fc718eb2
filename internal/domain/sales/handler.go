package sales

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/rest"
	"github.com/optiretail/optiretail/internal/platform/validation"
	"github.com/optiretail/optiretail/pkg/pagination"
)

var includes = []string{"patient", "payments", "adjustments"}

type Handler struct {
	svc  *Service
	lang validation.Negotiator
}

func NewHandler(svc *Service, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, lang: lang}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	staff.GET("/sales", h.ListSales)
	staff.POST("/sales", h.CreateSale)
	staff.GET("/sales/:id", h.GetSale)
	staff.PUT("/sales/:id", h.UpdateSale)
	staff.DELETE("/sales/:id", h.DeleteSale)

	staff.GET("/partial-payments", h.ListPayments)
	staff.POST("/partial-payments", h.CreatePayment)
	staff.GET("/partial-payments/:id", h.GetPayment)

	staff.GET("/sale-lens-price-adjustments", h.ListAdjustments)
	staff.POST("/sale-lens-price-adjustments", h.CreateAdjustment)
	staff.GET("/sale-lens-price-adjustments/:id", h.GetAdjustment)
	staff.PUT("/sale-lens-price-adjustments/:id", h.UpdateAdjustment)
	staff.DELETE("/sale-lens-price-adjustments/:id", h.DeleteAdjustment)
}

func (h *Handler) CreateSale(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreateSale)
}

func (h *Handler) GetSale(c echo.Context) error {
	id, err := rest.ID(c)
	if err != nil {
		return err
	}
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	sale, err := h.svc.GetSale(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale.ToResource(in))
}

func (h *Handler) ListSales(c echo.Context) error {
	pg := pagination.FromContext(c)
	in, err := resource.FromContext(c, includes...)
	if err != nil {
		return err
	}
	items, total, err := h.svc.SearchSales(c.Request().Context(), db.ExtractParams(c), in, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, in), total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) UpdateSale(c echo.Context) error {
	return rest.Update(c, h.lang, h.svc.UpdateSale)
}

func (h *Handler) DeleteSale(c echo.Context) error {
	return rest.Delete(c, h.lang, h.svc.DeleteSale)
}

func (h *Handler) CreatePayment(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreatePayment)
}

func (h *Handler) GetPayment(c echo.Context) error {
	return rest.Show(c, h.svc.GetPayment)
}

func (h *Handler) ListPayments(c echo.Context) error {
	return rest.List(c, h.svc.SearchPayments)
}

func (h *Handler) CreateAdjustment(c echo.Context) error {
	return rest.Create(c, h.lang, h.svc.CreateAdjustment)
}

func (h *Handler) GetAdjustment(c echo.Context) error {
	return rest.Show(c, h.svc.GetAdjustment)
}

func (h *Handler) ListAdjustments(c echo.Context) error {
	return rest.List(c, h.svc.SearchAdjustments)
}

func (h *Handler) UpdateAdjustment(c echo.Context) error {
	return rest.Update(c, h.lang, h.svc.UpdateAdjustment)
}

func (h *Handler) DeleteAdjustment(c echo.Context) error {
	return rest.Delete(c, h.lang, h.svc.DeleteAdjustment)
}
