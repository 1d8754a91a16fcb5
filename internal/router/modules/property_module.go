package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/container"
	handlers "github.com/oksasatya/bienesraices/internal/interface/http"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
)

// PropertyModule wires the seller workspace (session required) and the
// public detail page with its contact form.
// Protected: /mis-propiedades, /propiedades/*, /mensajes/:id
// Identified: GET/POST /propiedad/:id
type PropertyModule struct {
	Handler *handlers.PropertyHandler
	Users   middleware.UserLookup
}

func NewPropertyModule(h *handlers.PropertyHandler, users middleware.UserLookup) *PropertyModule {
	return &PropertyModule{Handler: h, Users: users}
}

func (m *PropertyModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	public := rg.Group("/")
	public.Use(middleware.Identify(jwt))
	{
		public.GET("/propiedad/:id", m.Handler.Show)
		public.POST("/propiedad/:id",
			middleware.RateLimit(rdb, 5, time.Hour, middleware.KeyByUserAndParam("id"), nil),
			m.Handler.SendMessage)
	}

	auth := rg.Group("/")
	auth.Use(middleware.Protect(jwt, m.Users, container.GetCookies()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET(handlers.DashboardPath, m.Handler.Dashboard)

		auth.GET("/propiedades/crear", m.Handler.CreateForm)
		auth.POST("/propiedades/crear", m.Handler.Create)
		auth.GET("/propiedades/editar/:id", m.Handler.EditForm)
		auth.POST("/propiedades/editar/:id", m.Handler.Update)
		auth.POST("/propiedades/eliminar/:id", m.Handler.Delete)
		auth.PUT("/propiedades/:id", m.Handler.Toggle)

		auth.GET("/propiedades/agregar-imagen/:id", m.Handler.ImageForm)
		auth.POST("/propiedades/agregar-imagen/:id", m.Handler.UploadImage)

		auth.GET("/mensajes/:id", m.Handler.Messages)
	}
}
