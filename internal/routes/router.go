package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/qms_management/configs"
	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/handlers"
)

// Handlers 聚合了所有模块的 HTTP 处理器与会话存储，由 main 装配后交给路由层
type Handlers struct {
	Sessions  *auth.SessionStore
	Auth      *handlers.AuthHandler
	Entity    *handlers.EntityHandler
	DMT       *handlers.DMTHandler
	User      *handlers.UserHandler
	Audit     *handlers.AuditHandler
	Dashboard *handlers.DashboardHandler
}

// SetupRoutes 初始化所有路由
func SetupRoutes(router *gin.Engine, h *Handlers) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = configs.AppConfig.CORSAllowedOrigins
	corsConfig.AllowCredentials = true // 会话 Cookie 需要携带凭证
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	SetupAuthRoutes(api, h)      // 注册认证路由
	SetupEntityRoutes(api, h)    // 注册基础数据路由
	SetupDMTRoutes(api, h)       // 注册 DMT 记录路由
	SetupAdminRoutes(api, h)     // 注册用户管理路由
	SetupDashboardRoutes(api, h) // 注册审计与仪表盘路由
}
