package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func contextWithIdentity(id *Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireRole_Allowed(t *testing.T) {
	c, rec := contextWithIdentity(&Identity{UserID: uuid.New(), Role: RoleSpecialist})

	err := RequireRole(RoleSpecialist, RoleReceptionist)(okHandler)(c)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	c, _ := contextWithIdentity(&Identity{UserID: uuid.New(), Role: RoleSeller})

	err := RequireRole(RoleManager)(okHandler)(c)
	if err == nil {
		t.Fatal("expected error for missing role")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRequireRole_AdminPasses(t *testing.T) {
	c, _ := contextWithIdentity(&Identity{UserID: uuid.New(), Role: RoleAdmin})
	if err := RequireRole(RoleLabTechnician)(okHandler)(c); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Anonymous(t *testing.T) {
	c, _ := contextWithIdentity(nil)
	if err := RequireRole(Staff...)(okHandler)(c); err == nil {
		t.Error("expected anonymous request to be rejected")
	}
}

func TestIdentity_HasRole(t *testing.T) {
	tests := []struct {
		name  string
		id    Identity
		roles []Role
		want  bool
	}{
		{"member", Identity{UserID: uuid.New(), Role: RoleSeller}, []Role{RoleSeller}, true},
		{"non member", Identity{UserID: uuid.New(), Role: RoleSeller}, []Role{RoleManager}, false},
		{"admin", Identity{UserID: uuid.New(), Role: RoleAdmin}, []Role{RoleManager}, true},
		{"anonymous admin role", Identity{Role: RoleAdmin}, []Role{RoleManager}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.HasRole(tt.roles...); got != tt.want {
				t.Errorf("HasRole = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("patient").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
