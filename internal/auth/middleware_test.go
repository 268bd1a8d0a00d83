package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubAuthenticator struct {
	id  Identity
	err error
}

func (s stubAuthenticator) Authenticate(string) (Identity, error) {
	return s.id, s.err
}

func newProtectedRouter(a Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireToken(a))
	r.GET("/me", func(c *gin.Context) {
		owner, ok := OwnerID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, owner)
	})
	return r
}

func TestRequireTokenInjectsOwner(t *testing.T) {
	r := newProtectedRouter(stubAuthenticator{id: Identity{OwnerID: "U1"}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer token")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "U1" {
		t.Fatalf("expected owner U1, got %q", rr.Body.String())
	}
}

func TestRequireTokenRejectsMissingIdentity(t *testing.T) {
	cases := map[string]string{
		"no header":    "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"empty token":  "Bearer   ",
		"bad token":    "Bearer nope",
	}
	r := newProtectedRouter(stubAuthenticator{err: ErrUnauthorized})

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestOwnerIDWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := OwnerID(c); ok {
		t.Fatalf("expected no owner on a bare context")
	}
}
