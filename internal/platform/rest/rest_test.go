package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/resource"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type item struct {
	ID   uuid.UUID
	Name string
}

func (i *item) ToResource(resource.Includes) resource.Document {
	return resource.Document{"id": i.ID.String(), "name": i.Name}
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func TestID_Invalid(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/items/nope", "")
	withID(c, "nope")

	_, err := ID(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/items", `{"name":"frame"}`)

	err := Create(c, nil, func(_ context.Context, req validation.Request) (*item, error) {
		name, _ := req.Input["name"].(string)
		return &item{ID: uuid.New(), Name: name}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var doc map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &doc)
	if doc["name"] != "frame" {
		t.Errorf("unexpected body %v", doc)
	}
}

func TestCreate_PropagatesError(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/items", `{}`)
	boom := errors.New("boom")

	err := Create(c, nil, func(context.Context, validation.Request) (*item, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestShow(t *testing.T) {
	id := uuid.New()
	c, rec := newContext(http.MethodGet, "/items/"+id.String(), "")
	withID(c, id.String())

	var got uuid.UUID
	err := Show(c, func(_ context.Context, id uuid.UUID) (*item, error) {
		got = id
		return &item{ID: id, Name: "lens"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id || rec.Code != http.StatusOK {
		t.Errorf("expected 200 for %s, got %d for %s", id, rec.Code, got)
	}
}

func TestList_Envelope(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/items?limit=1&offset=0", "")

	err := List(c, func(_ context.Context, _ map[string]string, limit, offset int) ([]*item, int, error) {
		if limit != 1 || offset != 0 {
			t.Errorf("unexpected page %d/%d", limit, offset)
		}
		return []*item{{ID: uuid.New(), Name: "a"}}, 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data    []map[string]interface{} `json:"data"`
		Total   int                      `json:"total"`
		HasMore bool                     `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Total != 3 || !body.HasMore {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestUpdate_PassesIDAndParams(t *testing.T) {
	id := uuid.New()
	c, rec := newContext(http.MethodPut, "/items/"+id.String(), `{"name":"new"}`)
	withID(c, id.String())

	err := Update(c, nil, func(_ context.Context, got uuid.UUID, req validation.Request) (*item, error) {
		if got != id || req.Params["id"] != id.String() {
			t.Errorf("unexpected id %s params %v", got, req.Params)
		}
		return &item{ID: got, Name: req.Input["name"].(string)}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	id := uuid.New()
	c, rec := newContext(http.MethodDelete, "/items/"+id.String(), "")
	withID(c, id.String())

	called := false
	err := Delete(c, nil, func(context.Context, uuid.UUID, validation.Request) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 after delete, got %d (called=%v)", rec.Code, called)
	}
}

func TestDelete_InvalidIDSkipsOperation(t *testing.T) {
	c, _ := newContext(http.MethodDelete, "/items/x", "")
	withID(c, "x")

	err := Delete(c, nil, func(context.Context, uuid.UUID, validation.Request) error {
		t.Error("operation should not run")
		return nil
	})
	if err == nil {
		t.Error("expected error")
	}
}
