package inventory

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

	staff.GET("/warehouses", h.ListWarehouses)
	staff.POST("/warehouses", h.CreateWarehouse)
	staff.GET("/warehouses/:id", h.GetWarehouse)
	staff.PUT("/warehouses/:id", h.UpdateWarehouse)
	staff.DELETE("/warehouses/:id", h.DeleteWarehouse)

	staff.GET("/warehouse-locations", h.ListLocations)
	staff.POST("/warehouse-locations", h.CreateLocation)
	staff.GET("/warehouse-locations/:id", h.GetLocation)
	staff.PUT("/warehouse-locations/:id", h.UpdateLocation)
	staff.DELETE("/warehouse-locations/:id", h.DeleteLocation)

	staff.GET("/products", h.ListProducts)
	staff.POST("/products", h.CreateProduct)
	staff.GET("/products/:id", h.GetProduct)
	staff.PUT("/products/:id", h.UpdateProduct)
	staff.DELETE("/products/:id", h.DeleteProduct)

	staff.GET("/inventory-transfers", h.ListTransfers)
	staff.POST("/inventory-transfers", h.CreateTransfer)
	staff.GET("/inventory-transfers/:id", h.GetTransfer)
	staff.PUT("/inventory-transfers/:id", h.UpdateTransfer)
	staff.DELETE("/inventory-transfers/:id", h.DeleteTransfer)
}

// -- Warehouse handlers --

func (h *Handler) CreateWarehouse(c echo.Context) error { return rest.Create(c, h.lang, h.svc.CreateWarehouse) }
func (h *Handler) GetWarehouse(c echo.Context) error    { return rest.Show(c, h.svc.GetWarehouse) }
func (h *Handler) ListWarehouses(c echo.Context) error  { return rest.List(c, h.svc.SearchWarehouses) }
func (h *Handler) UpdateWarehouse(c echo.Context) error { return rest.Update(c, h.lang, h.svc.UpdateWarehouse) }
func (h *Handler) DeleteWarehouse(c echo.Context) error { return rest.Delete(c, h.lang, h.svc.DeleteWarehouse) }

// -- Location handlers --

func (h *Handler) CreateLocation(c echo.Context) error { return rest.Create(c, h.lang, h.svc.CreateLocation) }
func (h *Handler) GetLocation(c echo.Context) error    { return rest.Show(c, h.svc.GetLocation) }
func (h *Handler) ListLocations(c echo.Context) error  { return rest.List(c, h.svc.SearchLocations) }
func (h *Handler) UpdateLocation(c echo.Context) error { return rest.Update(c, h.lang, h.svc.UpdateLocation) }
func (h *Handler) DeleteLocation(c echo.Context) error { return rest.Delete(c, h.lang, h.svc.DeleteLocation) }

// -- Product handlers --

func (h *Handler) CreateProduct(c echo.Context) error { return rest.Create(c, h.lang, h.svc.CreateProduct) }
func (h *Handler) GetProduct(c echo.Context) error    { return rest.Show(c, h.svc.GetProduct) }
func (h *Handler) ListProducts(c echo.Context) error  { return rest.List(c, h.svc.SearchProducts) }
func (h *Handler) UpdateProduct(c echo.Context) error { return rest.Update(c, h.lang, h.svc.UpdateProduct) }
func (h *Handler) DeleteProduct(c echo.Context) error { return rest.Delete(c, h.lang, h.svc.DeleteProduct) }

// -- Transfer handlers --

func (h *Handler) CreateTransfer(c echo.Context) error { return rest.Create(c, h.lang, h.svc.CreateTransfer) }
func (h *Handler) GetTransfer(c echo.Context) error    { return rest.Show(c, h.svc.GetTransfer) }
func (h *Handler) ListTransfers(c echo.Context) error  { return rest.List(c, h.svc.SearchTransfers) }
func (h *Handler) UpdateTransfer(c echo.Context) error { return rest.Update(c, h.lang, h.svc.UpdateTransfer) }
func (h *Handler) DeleteTransfer(c echo.Context) error { return rest.Delete(c, h.lang, h.svc.DeleteTransfer) }
