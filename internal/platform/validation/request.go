package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/optiretail/optiretail/internal/platform/auth"
)

// Input is a decoded request payload, or the normalized result of
// validating one.
type Input map[string]interface{}

// Has reports whether key is present, even when null.
func (in Input) Has(key string) bool {
	_, ok := in[key]
	return ok
}

// Params holds route parameters.
type Params map[string]string

// UUID parses a route parameter as a uuid.
func (p Params) UUID(name string) (uuid.UUID, bool) {
	v, ok := p[name]
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Request is everything validation and gates may look at.
type Request struct {
	Identity auth.Identity
	Params   Params
	Input    Input
	Lang     language.Tag
}

// Negotiator picks a locale from an Accept-Language header.
type Negotiator interface {
	Negotiate(acceptLanguage string) language.Tag
}

// FromEcho builds a Request from the echo context: identity, route params,
// the JSON body and the negotiated locale. An empty body yields an empty
// Input.
func FromEcho(c echo.Context, n Negotiator) (Request, error) {
	req := Request{
		Identity: auth.CurrentIdentity(c),
		Params:   make(Params),
		Input:    make(Input),
	}
	for i, name := range c.ParamNames() {
		values := c.ParamValues()
		if i < len(values) {
			req.Params[name] = values[i]
		}
	}
	if n != nil {
		req.Lang = n.Negotiate(c.Request().Header.Get("Accept-Language"))
	}

	body := c.Request().Body
	if body == nil || body == http.NoBody {
		return req, nil
	}
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&req.Input); err != nil {
		if errors.Is(err, io.EOF) {
			req.Input = make(Input)
			return req, nil
		}
		return req, echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")
	}
	if req.Input == nil {
		req.Input = make(Input)
	}
	return req, nil
}
