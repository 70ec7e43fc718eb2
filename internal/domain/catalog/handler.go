package catalog

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

// Handler serves one kind under its own path, e.g. /lens-types.
type Handler struct {
	svc  *Service
	path string
	lang validation.Negotiator
}

func NewHandler(svc *Service, path string, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, path: path, lang: lang}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	staff.GET(h.path, h.ListItems)
	staff.POST(h.path, h.CreateItem)
	staff.GET(h.path+"/:id", h.GetItem)
	staff.PUT(h.path+"/:id", h.UpdateItem)
	staff.DELETE(h.path+"/:id", h.DeleteItem)
}

func (h *Handler) CreateItem(c echo.Context) error {
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	i, err := h.svc.CreateItem(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, i.ToResource(nil))
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	i, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i.ToResource(nil))
}

func (h *Handler) ListItems(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.SearchItems(c.Request().Context(), db.ExtractParams(c), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, nil), total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	i, err := h.svc.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, i.ToResource(nil))
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
