package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

// PrivateNetworkOnly is the access-denied entry point: callers outside
// loopback or private ranges (10/8, 172.16/12, 192.168/16, fc00::/7) get the
// 403 envelope. It checks the TCP peer, not forwarding headers.
func PrivateNetworkOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPrivateIP(c.RemoteIP()) {
			Abort(c, apperror.ErrAccessDenied)
			return
		}
		c.Next()
	}
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate()
}
