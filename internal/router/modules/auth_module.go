package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-otp-registration/internal/interface/http"
	"github.com/oksasatya/go-otp-registration/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth", middleware.RequireJSON())
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/otp/resend", m.Handler.ResendOTP)
	}
}
