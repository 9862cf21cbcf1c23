package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
)

const (
	requesterKey = "requester"
	userIDKey    = "user_id"
)

// Authenticator resolves a bearer token to a requester.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Requester, error)
}

// AuthMiddleware identifies the requester. A request without an Authorization header
// runs as anonymous; a header that does not carry a valid token is rejected with 401.
// Both "Token <jwt>" and "Bearer <jwt>" are accepted.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(requesterKey, access.Anonymous())
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || (scheme != "Token" && scheme != "Bearer") || strings.TrimSpace(token) == "" {
			_ = c.Error(errs.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		requester, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(requesterKey, requester)
		c.Set(userIDKey, requester.UserID)
		c.Next()
	}
}

// CurrentRequester returns the requester stored by AuthMiddleware, anonymous if none.
func CurrentRequester(c *gin.Context) access.Requester {
	if v, ok := c.Get(requesterKey); ok {
		if r, ok := v.(access.Requester); ok {
			return r
		}
	}
	return access.Anonymous()
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentRequester(c).Authenticated {
			_ = c.Error(errs.NewUnauthorizedError("authentication credentials were not provided"))
			c.Abort()
			return
		}
		c.Next()
	}
}
