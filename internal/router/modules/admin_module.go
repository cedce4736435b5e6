package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-otp-registration/internal/interface/http"
	"github.com/oksasatya/go-otp-registration/internal/interface/middleware"
)

// AdminModule exposes read-only user lookups for operators. Callers need the
// admin bearer token and must reach the service from a private network.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Token   string
}

func NewAdminModule(h *handlers.AdminHandler, token string) *AdminModule {
	return &AdminModule{Handler: h, Token: token}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", middleware.AdminToken(m.Token), middleware.PrivateNetworkOnly())
	{
		admin.GET("/users", m.Handler.FindUser)
		admin.GET("/users/:id", m.Handler.GetUser)
	}
}
