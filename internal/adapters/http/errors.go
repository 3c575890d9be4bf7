package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moviequotes/quote-service/internal/adapters/http/dto"
)

// noRoute answers unknown paths with the JSON error envelope.
func noRoute(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(dto.MessageRouteNotFound))
}

// noMethod answers a known path hit with an unsupported method.
func noMethod(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.MessageMethodNotAllowed))
}
