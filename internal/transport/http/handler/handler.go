// Package handler 把 service 层暴露为 HTTP 动作；每个 Handler 通过
// router.Registry 挂到 /api/v1 或 /admin/v1。
package handler

import (
	"github.com/gin-gonic/gin"

	"soundnest/internal/transport/http/ez"
)

// callerID 取当前登录用户 id（由 AuthJWT 写入）
func callerID(c *gin.Context) string { return c.GetString(ez.KeyUserID) }

// ownID 只允许修改自己的边：路径里的 :id 必须等于调用者
func ownID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", ez.BadRequest("please provide user id")
	}
	if id != callerID(c) {
		return "", ez.Forbidden("cannot modify another user")
	}
	return id, nil
}
