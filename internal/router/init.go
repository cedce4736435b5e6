package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/internal/container"
	handlers "github.com/oksasatya/go-otp-registration/internal/interface/http"
	"github.com/oksasatya/go-otp-registration/internal/interface/middleware"
	"github.com/oksasatya/go-otp-registration/internal/router/modules"
)

// New builds the gin engine: global middleware, every module under /api and
// the 404/405 handlers, all sharing the error envelope.
func New(c *container.Container) *gin.Engine {
	cfg := c.Config

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	// client IP is the TCP peer unless a proxy list is configured
	_ = engine.SetTrustedProxies(nil)

	engine.Use(
		middleware.ErrorFallback(),
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.ErrorHandler(c.Logger),
		middleware.Recovery(c.Logger),
	)
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		engine.Use(gin.Logger())
	}

	reg := NewRegistry(engine)
	InitModules(reg, c)
	reg.RegisterAll()
	reg.Fallbacks()
	return engine
}

// InitModules registers all application modules with the registry.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Registration)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(c.Registration), cfg.AdminAPIToken))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(cfg.AdminAPIToken))
	}
}
