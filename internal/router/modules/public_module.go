package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/container"
	handlers "github.com/oksasatya/bienesraices/internal/interface/http"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
)

type PublicModule struct {
	Handler *handlers.PublicHandler
}

func NewPublicModule(h *handlers.PublicHandler) *PublicModule {
	return &PublicModule{Handler: h}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/")
	g.Use(middleware.Identify(container.GetJWT()))
	{
		g.GET("/", m.Handler.Home)
		g.GET("/categorias/:id", m.Handler.Category)
		g.GET("/buscador", searchLimiter, m.Handler.Search)
		g.POST("/buscador", searchLimiter, m.Handler.Search)
	}
}
