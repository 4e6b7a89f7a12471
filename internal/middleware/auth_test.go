package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nirman/internal/model"
	"nirman/internal/service"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(GetJWTSecret())
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    uuid.New().String(),
		"role":   role,
		"org_id": uuid.New().String(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
}

func newAuthRouter() (*gin.Engine, *service.Actor) {
	gin.SetMode(gin.TestMode)
	var seen service.Actor
	r := gin.New()
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		seen, _ = CurrentActor(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequireAuthBearerToken(t *testing.T) {
	r, seen := newAuthRouter()
	claims := validClaims(model.RoleUser)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if seen.UserID.String() != claims["sub"] {
		t.Errorf("actor user = %s, want %s", seen.UserID, claims["sub"])
	}
	if seen.OrganizationID.String() != claims["org_id"] {
		t.Errorf("actor org = %s, want %s", seen.OrganizationID, claims["org_id"])
	}
	if seen.Role != model.RoleUser {
		t.Errorf("actor role = %s, want user", seen.Role)
	}
}

func TestRequireAuthCookieToken(t *testing.T) {
	r, _ := newAuthRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, validClaims(model.RoleUser))})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	r, _ := newAuthRouter()

	tests := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"malformed header", func(req *http.Request) {
			req.Header.Set("Authorization", "Token abc")
		}},
		{"garbage token", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not.a.jwt")
		}},
		{"wrong signing key", func(req *http.Request) {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(model.RoleUser))
			signed, _ := token.SignedString([]byte("some-other-secret"))
			req.Header.Set("Authorization", "Bearer "+signed)
		}},
		{"expired token", func(req *http.Request) {
			claims := validClaims(model.RoleUser)
			claims["exp"] = time.Now().Add(-time.Hour).Unix()
			req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		}},
		{"non-uuid subject", func(req *http.Request) {
			claims := validClaims(model.RoleUser)
			claims["sub"] = "42"
			req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		}},
		{"unknown role", func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("superuser")))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r, _ := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(model.RoleUser)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user on admin route: status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(model.RoleAdmin)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", w.Code)
	}
}
