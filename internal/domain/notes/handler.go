package notes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
	"github.com/optiretail/optiretail/pkg/pagination"
)

type Handler struct {
	svc  *Service
	lang validation.Negotiator
}

func NewHandler(svc *Service, lang validation.Negotiator) *Handler {
	return &Handler{svc: svc, lang: lang}
}

// RegisterRoutes mounts GET and POST /<noteable>/:id/notes for every
// noteable kind. The kind is fixed by the route; the service sees it as the
// noteable_type param and the id as noteable_id. The :id name matches the
// noteable's own routes so both share one router node.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole(auth.Staff...))
	for _, k := range Kinds() {
		path := "/" + k.Route() + "/:id/notes"
		staff.GET(path, h.List(k))
		staff.POST(path, h.Create(k))
	}
}

func (h *Handler) request(c echo.Context, k Kind) (validation.Request, error) {
	req, err := validation.FromEcho(c, h.lang)
	if err != nil {
		return req, err
	}
	req.Params["noteable_type"] = string(k)
	req.Params["noteable_id"] = req.Params["id"]
	delete(req.Params, "id")
	return req, nil
}

func (h *Handler) Create(k Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := h.request(c, k)
		if err != nil {
			return err
		}
		n, err := h.svc.CreateNote(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, n.ToResource(nil))
	}
}

func (h *Handler) List(k Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := h.request(c, k)
		if err != nil {
			return err
		}
		pg := pagination.FromContext(c)
		items, total, err := h.svc.ListNotes(c.Request().Context(), req, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, nil), total, pg.Limit, pg.Offset).WithLinks(c))
	}
}
