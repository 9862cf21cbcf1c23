package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/access"
	"github.com/pageza/foodgram/backend/internal/errs"
)

// RequirePolicy applies the request-level check of p. Anonymous requesters that are
// refused get 401, authenticated ones 403.
func RequirePolicy(p access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := CurrentRequester(c)
		if p.HasPermission(requester, c.Request.Method) {
			c.Next()
			return
		}

		if !requester.Authenticated {
			_ = c.Error(errs.NewUnauthorizedError("authentication credentials were not provided"))
		} else {
			_ = c.Error(errs.NewForbiddenError("you do not have permission to perform this action"))
		}
		c.Abort()
	}
}
