package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	h := NewHandler(svc, i18n.Default("en"))
	e := echo.New()
	return h, e
}

func newContext(e *echo.Echo, method, body string, role auth.Role) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: uuid.New(), Role: role}))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e := newTestHandler()
	c, rec := newContext(e, http.MethodPost, `{"first_name":"Ana","last_name":"Gomez"}`, auth.RoleReceptionist)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["full_name"] != "Ana Gomez" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestHandler_CreatePatient_Invalid(t *testing.T) {
	h, e := newTestHandler()
	c, _ := newContext(e, http.MethodPost, `{}`, auth.RoleReceptionist)

	err := h.CreatePatient(c)
	if apperr.StatusCode(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (%v)", apperr.StatusCode(err), err)
	}
}

func TestHandler_CreatePatient_Spanish(t *testing.T) {
	h, e := newTestHandler()
	c, _ := newContext(e, http.MethodPost, `{"last_name":"Gomez"}`, auth.RoleReceptionist)
	c.Request().Header.Set("Accept-Language", "es-MX,es;q=0.9")

	err := h.CreatePatient(c)
	body := apperr.Body(err)
	fields, ok := body["errors"].(map[string][]string)
	if !ok || len(fields["first_name"]) == 0 || !strings.HasPrefix(fields["first_name"][0], "El campo") {
		t.Errorf("expected spanish message, got %v", body)
	}
}

func TestHandler_CreatePatient_BadJSON(t *testing.T) {
	h, e := newTestHandler()
	c, _ := newContext(e, http.MethodPost, `{"first_name":`, auth.RoleReceptionist)

	if got := apperr.StatusCode(h.CreatePatient(c)); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestHandler_GetPatient(t *testing.T) {
	h, e := newTestHandler()
	p, err := h.svc.CreatePatient(context.Background(), validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: auth.RoleSeller},
		Input:    validation.Input{"first_name": "Ana", "last_name": "Gomez"},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	c, rec := newContext(e, http.MethodGet, "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c, _ := newContext(e, http.MethodGet, "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if got := apperr.StatusCode(h.GetPatient(c)); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestHandler_GetPatient_InvalidID(t *testing.T) {
	h, e := newTestHandler()
	c, _ := newContext(e, http.MethodGet, "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if got := apperr.StatusCode(h.GetPatient(c)); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, e := newTestHandler()
	for _, name := range []string{"Ana", "Luis"} {
		h.svc.CreatePatient(context.Background(), validation.Request{
			Identity: auth.Identity{UserID: uuid.New(), Role: auth.RoleSeller},
			Input:    validation.Input{"first_name": name, "last_name": "Gomez"},
		})
	}

	c, rec := newContext(e, http.MethodGet, "", auth.RoleSeller)
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Total != 2 || len(body.Data) != 2 {
		t.Errorf("expected 2 patients, got %d/%d", body.Total, len(body.Data))
	}
}

func TestHandler_DeleteUser_Denied(t *testing.T) {
	h, e := newTestHandler()
	u, err := h.svc.CreateUser(context.Background(), validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: auth.RoleManager},
		Input:    validation.Input{"name": "Luis", "email": "luis@optica.test", "role": "seller"},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	c, _ := newContext(e, http.MethodDelete, "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(u.ID.String())

	if got := apperr.StatusCode(h.DeleteUser(c)); got != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got)
	}
}

func TestHandler_UpdateUser(t *testing.T) {
	h, e := newTestHandler()
	u, _ := h.svc.CreateUser(context.Background(), validation.Request{
		Identity: auth.Identity{UserID: uuid.New(), Role: auth.RoleManager},
		Input:    validation.Input{"name": "Luis", "email": "luis@optica.test", "role": "seller"},
	})

	c, rec := newContext(e, http.MethodPut, `{"role":"specialist"}`, auth.RoleManager)
	c.SetParamNames("id")
	c.SetParamValues(u.ID.String())

	if err := h.UpdateUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["role"] != "specialist" || body["email"] != "luis@optica.test" {
		t.Errorf("unexpected body %v", body)
	}
}
