package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soundnest/internal/core/auth"
	"soundnest/internal/core/server"
	"soundnest/internal/transport/http/ez"
	mdw "soundnest/internal/transport/http/middleware"
)

// Options 中间件限额；零值取默认
type Options struct {
	MaxInFlight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
	// UploadsPath/UploadsDir 非空时把本地上传目录挂成静态文件
	UploadsPath string
	UploadsDir  string
}

func (o Options) withDefaults() Options {
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 16 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

// newEngine 两个入口共用的中间件链 + /health + /metrics
func newEngine(l *zap.Logger, opt Options) *gin.Engine {
	opt = opt.withDefaults()
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(opt.MaxInFlight),
		mdw.MaxBodyBytes(opt.MaxBodyBytes),
		mdw.Timeout(opt.Timeout),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry, opt Options) *gin.Engine {
	r := newEngine(l, opt)
	if opt.UploadsPath != "" && opt.UploadsDir != "" {
		r.Static(opt.UploadsPath, opt.UploadsDir)
	}

	api := r.Group("/api/v1")
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAllAPI(ez.New(api, l), ez.New(authUser, l))
	return r
}
