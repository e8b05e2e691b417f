package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/models"
)

// SetupAdminRoutes 设置用户管理路由，仅 Admin 可访问
func SetupAdminRoutes(router *gin.RouterGroup, h *Handlers) {
	apiV1 := router.Group("/v1")

	userGroup := apiV1.Group("/users")
	userGroup.Use(auth.SessionMiddleware(h.Sessions), auth.RequireRoles(models.RoleAdmin))
	{
		// POST /api/v1/users
		userGroup.POST("", h.User.CreateUser)
		// GET /api/v1/users
		userGroup.GET("", h.User.ListUsers)
		// GET /api/v1/users/:id
		userGroup.GET("/:id", h.User.GetUser)
		// PUT /api/v1/users/:id
		userGroup.PUT("/:id", h.User.UpdateUser)
		// DELETE /api/v1/users/:id
		userGroup.DELETE("/:id", h.User.DeactivateUser)
		// POST /api/v1/users/:id/activate
		userGroup.POST("/:id/activate", h.User.ActivateUser)
	}
}
