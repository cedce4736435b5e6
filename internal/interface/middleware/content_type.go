package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

// RequireJSON rejects requests whose Content-Type is not application/json
// with a 415 envelope listing the supported type.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ct := c.ContentType(); ct != gin.MIMEJSON {
			Abort(c, &apperror.UnsupportedMediaTypeError{
				ContentType: ct,
				Supported:   []string{gin.MIMEJSON},
			})
			return
		}
		c.Next()
	}
}
