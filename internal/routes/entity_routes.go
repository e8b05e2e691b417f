package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/auth"
)

// SetupEntityRoutes 设置基础数据相关路由，全部需要有效会话
func SetupEntityRoutes(router *gin.RouterGroup, h *Handlers) {
	apiV1 := router.Group("/v1")

	entityGroup := apiV1.Group("/entities")
	entityGroup.Use(auth.SessionMiddleware(h.Sessions))
	{
		// GET /api/v1/entities/:entity
		entityGroup.GET("/:entity", h.Entity.ListEntities)
		// POST /api/v1/entities/:entity
		entityGroup.POST("/:entity", h.Entity.CreateEntity)
		// GET /api/v1/entities/:entity/export/:format
		entityGroup.GET("/:entity/export/:format", h.Entity.ExportEntities)
		// POST /api/v1/entities/:entity/import
		entityGroup.POST("/:entity/import", h.Entity.ImportEntities)
		// GET /api/v1/entities/:entity/:id
		entityGroup.GET("/:entity/:id", h.Entity.GetEntity)
		// PUT /api/v1/entities/:entity/:id
		entityGroup.PUT("/:entity/:id", h.Entity.UpdateEntity)
		// DELETE /api/v1/entities/:entity/:id
		entityGroup.DELETE("/:entity/:id", h.Entity.DeleteEntity)
	}
}
