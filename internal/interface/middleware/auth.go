package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedline/backend/pkg/helpers"
	"github.com/feedline/backend/pkg/response"
)

// HeaderAuthToken is the fixed request header carrying the bearer credential.
const HeaderAuthToken = "x-auth-token"

// CtxUserIDKey is the Gin context key for the authenticated user id.
const CtxUserIDKey = "userID"

// Auth verifies the credential from the x-auth-token header and injects the
// resolved user id into the context. It never loads the user record; that is
// left to operations that need profile fields.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuthToken)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "no token, authorization denied", nil)
			return
		}
		uid, err := jwt.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "token is not valid", verifyReason(err))
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, helpers.ErrTokenExpired):
		return "expired"
	case errors.Is(err, helpers.ErrTokenInvalidSignature):
		return "invalid signature"
	default:
		return "malformed"
	}
}
