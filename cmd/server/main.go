package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/configs"
	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/handlers"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/internal/routes"
	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/db"
)

func main() {
	// 加载应用配置
	configs.LoadConfig()

	// 初始化数据库连接并迁移表结构
	db.InitDB()
	defer db.CloseDB()
	database := db.GetDB()
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database tables migrated successfully.")

	// 装配仓储层
	userRepo := repositories.NewGormUserRepository(database)
	entityRepo := repositories.NewGormEntityRepository(database)
	dmtRepo := repositories.NewGormDMTRepository(database)
	auditRepo := repositories.NewGormAuditRepository(database)

	// 装配服务层
	pageSize := configs.AppConfig.PageSize
	userService := services.NewUserService(userRepo)
	entityService := services.NewEntityService(entityRepo, pageSize)
	dmtService := services.NewDMTService(dmtRepo)
	importService := services.NewImportService(entityRepo, pageSize)
	exportService := services.NewExportService()
	dashboardService := services.NewDashboardService(database, dmtRepo)

	// 系统首次启动时写入默认管理员账号
	if err := userService.EnsureDefaultAdmin(); err != nil {
		log.Fatalf("Failed to ensure default admin account: %v", err)
	}

	// 装配会话存储、处理器并注册路由
	sessions := auth.NewSessionStore(configs.AppConfig.SessionTTL)
	h := &routes.Handlers{
		Sessions:  sessions,
		Auth:      handlers.NewAuthHandler(userRepo, sessions),
		Entity:    handlers.NewEntityHandler(entityService, importService, exportService, pageSize),
		DMT:       handlers.NewDMTHandler(dmtService, exportService, pageSize),
		User:      handlers.NewUserHandler(userService),
		Audit:     handlers.NewAuditHandler(auditRepo),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
	}

	router := gin.Default()
	routes.SetupRoutes(router, h)

	port := configs.AppConfig.ServerPort
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
