package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/auth"
)

// SetupAuthRoutes 设置认证相关路由
func SetupAuthRoutes(router *gin.RouterGroup, h *Handlers) {
	apiV1 := router.Group("/v1")
	{
		// 公共认证路由组 (登录不需要会话)
		publicAuthGroup := apiV1.Group("/auth")
		{
			// POST /api/v1/auth/login
			publicAuthGroup.POST("/login", h.Auth.Login)
		}

		// 受保护的认证路由组
		protectedAuthGroup := apiV1.Group("/auth")
		protectedAuthGroup.Use(auth.SessionMiddleware(h.Sessions))
		{
			// POST /api/v1/auth/logout
			protectedAuthGroup.POST("/logout", h.Auth.Logout)
			// GET /api/v1/auth/me
			protectedAuthGroup.GET("/me", h.Auth.Me)
		}
	}
}
