package clinical

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/optiretail/optiretail/internal/domain/scheduling"
	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/i18n"
)

func newTestHandler() (*Handler, *fixture, *echo.Echo) {
	f := newFixture()
	return NewHandler(f.svc, i18n.Default("en")), f, echo.New()
}

func newContext(e *echo.Echo, method, target, body string, role auth.Role) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: uuid.New(), Role: role}))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreatePrescription(t *testing.T) {
	h, f, e := newTestHandler()
	apptID := f.appointment()
	body := `{"appointment_id":"` + apptID.String() + `","os_sphere":-2.75,"os_axis":180,"pupillary_distance":63.5}`
	c, rec := newContext(e, http.MethodPost, "/prescriptions", body, auth.RoleSpecialist)

	if err := h.CreatePrescription(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var doc map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &doc)
	os, ok := doc["os"].(map[string]interface{})
	if !ok || os["sphere"] != -2.75 || os["axis"] != float64(180) {
		t.Errorf("unexpected body %v", doc)
	}
	if f.appts.appts[apptID].Status != scheduling.StatusCompleted {
		t.Error("expected the appointment to be completed")
	}
}

func TestHandler_CreatePrescription_Forbidden(t *testing.T) {
	h, _, e := newTestHandler()
	c, _ := newContext(e, http.MethodPost, "/prescriptions", `{}`, auth.RoleSeller)

	err := h.CreatePrescription(c)
	if apperr.StatusCode(err) != http.StatusForbidden {
		t.Errorf("expected 403, got %d (%v)", apperr.StatusCode(err), err)
	}
}

func TestHandler_GetPrescription_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	id := uuid.New()
	c, _ := newContext(e, http.MethodGet, "/prescriptions/"+id.String(), "", auth.RoleSpecialist)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	err := h.GetPrescription(c)
	if apperr.StatusCode(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d (%v)", apperr.StatusCode(err), err)
	}
}

func TestHandler_DeleteThenRestore(t *testing.T) {
	h, f, e := newTestHandler()
	p := f.create(t, f.appointment())

	c, rec := newContext(e, http.MethodDelete, "/", "", auth.RoleManager)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.DeletePrescription(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c, rec = newContext(e, http.MethodPost, "/", "", auth.RoleManager)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.RestorePrescription(c); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
