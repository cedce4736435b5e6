package router

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-registration/pkg/apperror"
)

type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

// Fallbacks installs the 404 and 405 handlers. Call after RegisterAll and
// after every global middleware is in place.
func (r *Registry) Fallbacks() {
	r.Engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.RouteNotFound(c.Request.Method, c.Request.URL.String()))
	})
	r.Engine.NoMethod(func(c *gin.Context) {
		supported := allowedMethods(r.Engine.Routes(), c.Request.URL.Path)
		if len(supported) > 0 {
			c.Header("Allow", strings.Join(supported, ", "))
		}
		_ = c.Error(&apperror.MethodNotAllowedError{Method: c.Request.Method, Supported: supported})
	})
}

// allowedMethods lists, sorted, the methods registered for routes whose
// pattern matches path.
func allowedMethods(routes gin.RoutesInfo, path string) []string {
	seen := map[string]bool{}
	var out []string
	for _, rt := range routes {
		if seen[rt.Method] || !matchPattern(rt.Path, path) {
			continue
		}
		seen[rt.Method] = true
		out = append(out, rt.Method)
	}
	sort.Strings(out)
	return out
}

// matchPattern reports whether path fits a gin route pattern with :param and
// *wildcard segments.
func matchPattern(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range ps {
		if strings.HasPrefix(p, "*") {
			return true
		}
		if i >= len(xs) {
			return false
		}
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return len(ps) == len(xs)
}
