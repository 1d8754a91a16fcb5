package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its routes under the root group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects feature modules and mounts them on the engine root.
type Registry struct {
	Engine      *gin.Engine
	Root        *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	fallback    gin.HandlerFunc
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, Root: engine.Group("/")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// NoRoute sets the handler for paths no module claims.
func (r *Registry) NoRoute(h gin.HandlerFunc) {
	r.fallback = h
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.Root.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.Root)
	}
	if r.fallback != nil {
		r.Engine.NoRoute(append(append([]gin.HandlerFunc{}, r.middlewares...), r.fallback)...)
	}
}
