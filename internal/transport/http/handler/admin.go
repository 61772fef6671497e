package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soundnest/internal/domain"
	"soundnest/internal/service"
	"soundnest/internal/transport/http/ez"
)

// AdminHandler 后台接口：分组已走 AuthJWT("admin")
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type edgesIn struct {
	Values []string `json:"values"`
}

func (h *AdminHandler) MountAdmin(admin ez.EZ) {
	ez.RegisterAction(admin, ez.Action[struct{}, []domain.ResolvedUser]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ResolvedUser, error) {
			return h.users.ListResolved(c.Request.Context())
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.Get(c.Request.Context(), c.Param("id"))
		},
	})

	// 整体覆盖一条边（集合边会去重，tracks 保留顺序）
	ez.RegisterAction(admin, ez.Action[edgesIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id/edges/:edge",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *edgesIn) (*domain.User, error) {
			e, err := domain.ParseEdge(c.Param("edge"))
			if err != nil {
				return nil, err
			}
			return h.users.UpdateEdges(c.Request.Context(), c.Param("id"), e, in.Values)
		},
	})
}
