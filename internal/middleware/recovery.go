package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery turns a panic into a 500. Browsers get a plain page, API callers
// get JSON.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("path", c.Request.URL.Path).
					Str("request_id", GetRequestID(c)).
					Msg("panic recovered")

				if strings.Contains(c.GetHeader("Accept"), "application/json") {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error": "internal_server_error",
					})
					return
				}
				c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
					[]byte("<!doctype html><title>Error</title><p>Something went wrong. Please try again.</p>"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
