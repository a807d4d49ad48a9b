package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/auth"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// Authenticate attaches the bearer token's user to the request context.
// Requests without an Authorization header pass through anonymously and are
// rejected later by the operations that need a user. A header that is
// present but malformed or invalid is rejected here.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, apperr.Unauthorized("invalid authorization header format"))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			abort(c, apperr.Unauthorized("invalid token"))
			return
		}

		user := &auth.User{ID: claims.UserID, Username: claims.Username}
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func abort(c *gin.Context, e *apperr.Error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(e.Code), types.Failure(e))
}
