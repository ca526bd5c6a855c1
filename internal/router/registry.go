package router

import "github.com/gin-gonic/gin"

// APIPrefix is the group every module registers under.
const APIPrefix = "/api/v1"

// Module registers a feature's routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

// Registry collects modules and group middleware, then mounts them once.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll applies group middleware before any route so every module sees it.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
