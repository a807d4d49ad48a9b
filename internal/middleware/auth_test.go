package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-ideas/backend/internal/auth"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func authRouter(v TokenValidator) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(v))
	router.GET("/", func(c *gin.Context) {
		user, ok := auth.UserFromContext(c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.ID)
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: "u1", Username: "cook"}, nil)
	v.On("ValidateToken", "bad").Return(nil, errors.New("signature is invalid"))
	router := authRouter(v)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"missing token", "Bearer", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
				return
			}
			env := decode(t, w)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		})
	}
	v.AssertExpectations(t)
}
