// Package resource shapes persisted records into JSON documents. Related
// records appear only when the caller asked for them with ?include=.
package resource

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// Document is a flattened JSON object.
type Document map[string]interface{}

// Includes is the set of relations requested for a response.
type Includes map[string]bool

// Has reports whether relation was requested.
func (in Includes) Has(relation string) bool {
	return in[relation]
}

// Names returns the requested relations sorted.
func (in Includes) Names() []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Parse reads a comma-separated include list. Unknown relations are an
// error so a typo does not silently drop data.
func Parse(raw string, allowed ...string) (Includes, error) {
	in := Includes{}
	if strings.TrimSpace(raw) == "" {
		return in, nil
	}
	known := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		known[a] = true
	}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, echo.NewHTTPError(http.StatusBadRequest,
				"unknown include "+name+"; allowed: "+strings.Join(allowed, ", "))
		}
		in[name] = true
	}
	return in, nil
}

// FromContext parses the include query parameter of the request.
func FromContext(c echo.Context, allowed ...string) (Includes, error) {
	return Parse(c.QueryParam("include"), allowed...)
}

// Shaper is implemented by models that render themselves.
type Shaper interface {
	ToResource(in Includes) Document
}

// Collection renders each item with the same includes.
func Collection[T Shaper](items []T, in Includes) []Document {
	out := make([]Document, len(items))
	for i, item := range items {
		out[i] = item.ToResource(in)
	}
	return out
}
