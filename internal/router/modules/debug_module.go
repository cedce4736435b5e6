package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/internal/interface/middleware"
)

type DebugModule struct {
	Token string
}

func NewDebugModule(token string) *DebugModule { return &DebugModule{Token: token} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters (registrations, otp dispatch failures, reissues), admin only
	rg.GET("/debug/vars", middleware.AdminToken(m.Token), middleware.PrivateNetworkOnly(), gin.WrapH(expvar.Handler()))
}
