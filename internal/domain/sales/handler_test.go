package sales

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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

func TestHandler_CreateSale(t *testing.T) {
	h, f, e := newTestHandler()
	body := fmt.Sprintf(`{"patient_id":%q,"total":180}`, f.patientID)
	c, rec := newContext(e, http.MethodPost, "/sales", body, auth.RoleSeller)

	if err := h.CreateSale(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var doc map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &doc)
	if doc["balance"] != 180.0 || doc["status"] != StatusOpen {
		t.Errorf("unexpected body %v", doc)
	}
}

func TestHandler_CreatePayment_OverBalance_Spanish(t *testing.T) {
	h, f, e := newTestHandler()
	s := f.sale(t, 80)
	body := fmt.Sprintf(`{"sale_id":%q,"amount":95,"method":"card"}`, s.ID)
	c, _ := newContext(e, http.MethodPost, "/partial-payments", body, auth.RoleReceptionist)
	c.Request().Header.Set("Accept-Language", "es")

	err := h.CreatePayment(c)
	if apperr.StatusCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	fields, _ := apperr.Body(err)["errors"].(map[string][]string)
	want := "El monto del abono no puede superar el saldo de la venta (80.00)."
	if len(fields["amount"]) == 0 || fields["amount"][0] != want {
		t.Errorf("unexpected errors %v", fields)
	}
}

func TestHandler_GetSale_WithPayments(t *testing.T) {
	h, f, e := newTestHandler()
	s := f.sale(t, 80)
	if _, err := f.pay(s.ID, 30); err != nil {
		t.Fatalf("pay: %v", err)
	}
	c, rec := newContext(e, http.MethodGet, "/sales/"+s.ID.String()+"?include=payments", "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(s.ID.String())

	if err := h.GetSale(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &doc)
	payments, ok := doc["payments"].([]interface{})
	if !ok || len(payments) != 1 || doc["balance"] != 50.0 {
		t.Errorf("unexpected body %v", doc)
	}
}

func TestHandler_DeleteAdjustment_InvalidID(t *testing.T) {
	h, _, e := newTestHandler()
	c, _ := newContext(e, http.MethodDelete, "/sale-lens-price-adjustments/nope", "", auth.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := h.DeleteAdjustment(c)
	if apperr.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d (%v)", apperr.StatusCode(err), err)
	}
}
