// Package rest holds the echo handler shapes shared by resources without
// includes: create, show, list, update and delete.
package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/db"
	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
	"github.com/optiretail/optiretail/pkg/pagination"
)

// ID parses the :id route parameter.
func ID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func Create[T resource.Shaper](c echo.Context, lang validation.Negotiator, op func(context.Context, validation.Request) (T, error)) error {
	req, err := validation.FromEcho(c, lang)
	if err != nil {
		return err
	}
	item, err := op(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item.ToResource(nil))
}

func Show[T resource.Shaper](c echo.Context, op func(context.Context, uuid.UUID) (T, error)) error {
	id, err := ID(c)
	if err != nil {
		return err
	}
	item, err := op(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item.ToResource(nil))
}

func List[T resource.Shaper](c echo.Context, op func(context.Context, map[string]string, int, int) ([]T, int, error)) error {
	pg := pagination.FromContext(c)
	items, total, err := op(c.Request().Context(), db.ExtractParams(c), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resource.Collection(items, nil), total, pg.Limit, pg.Offset).WithLinks(c))
}

func Update[T resource.Shaper](c echo.Context, lang validation.Negotiator, op func(context.Context, uuid.UUID, validation.Request) (T, error)) error {
	id, err := ID(c)
	if err != nil {
		return err
	}
	req, err := validation.FromEcho(c, lang)
	if err != nil {
		return err
	}
	item, err := op(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item.ToResource(nil))
}

func Delete(c echo.Context, lang validation.Negotiator, op func(context.Context, uuid.UUID, validation.Request) error) error {
	id, err := ID(c)
	if err != nil {
		return err
	}
	req, err := validation.FromEcho(c, lang)
	if err != nil {
		return err
	}
	if err := op(c.Request().Context(), id, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
