package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bienesraices/internal/container"
	"github.com/oksasatya/bienesraices/internal/interface/middleware"
)

// DebugModule exposes expvar counters to private networks only.
type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	private := middleware.AllowPrivateIP()
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), private)
	rg.GET("/debug/vars", middleware.OnlyIf(private), rl, gin.WrapH(expvar.Handler()))
}
