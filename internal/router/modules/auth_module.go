package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/container"
	handlers "github.com/oksasatya/bienesraices/internal/interface/http"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
)

// AuthModule serves account pages: login, registration, confirmation and
// password recovery.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	forgotLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	tokenLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/login", m.Handler.LoginForm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/cerrar-sesion", m.Handler.Logout)

	rg.GET("/registro", m.Handler.RegisterForm)
	rg.POST("/registro", registerLimiter, m.Handler.Register)
	rg.GET("/confirmar/:token", tokenLimiter, m.Handler.Confirm)

	rg.GET("/olvide-password", m.Handler.ForgotForm)
	rg.POST("/olvide-password", forgotLimiter, m.Handler.Forgot)
	rg.GET("/olvide-password/:token", tokenLimiter, m.Handler.ResetForm)
	rg.POST("/olvide-password/:token", tokenLimiter, m.Handler.Reset)
}
