package auth

import (
	"net/http"
	"strings"

	"github.com/abduss/uploader/internal/response"
	"github.com/gin-gonic/gin"
)

const identityKey = "authIdentity"

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(token string) (Identity, error)
}

// RequireToken rejects requests without a valid bearer token and stores the
// caller's identity for the handlers behind it.
func RequireToken(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		id, err := authn.Authenticate(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		SetIdentity(c, id)
		c.Next()
	}
}

// SetIdentity stores id on the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// OwnerID returns the authenticated owner, if any.
func OwnerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	id, ok := v.(Identity)
	if !ok || id.OwnerID == "" {
		return "", false
	}
	return id.OwnerID, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
