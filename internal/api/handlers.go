package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.Success(gin.H{"status": "ok"}))
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, types.Success(data))
}

// respondError writes the error envelope. Internal causes are logged and
// never sent to the client.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(e.Code), types.Failure(e))
}
