package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soundnest/internal/core/auth"
	"soundnest/internal/domain"
	"soundnest/internal/transport/http/ez"
	mdw "soundnest/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry, opt Options) *gin.Engine {
	r := newEngine(l, opt)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	reg.MountAllAdmin(ez.New(admin, l))
	return r
}
