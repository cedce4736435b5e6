package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

// AdminToken is the unauthenticated-access entry point: requests without the
// configured bearer token get the 401 envelope. An empty token locks the
// surface entirely.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := bearer(c.GetHeader("Authorization"))
		if token == "" || !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			Abort(c, apperror.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

func bearer(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
