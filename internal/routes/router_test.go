package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qms_management/configs"
	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/handlers"
	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/db"
)

func init() {
	gin.SetMode(gin.TestMode)
	configs.LoadConfig()
}

// newAppRouter 按 main 的装配方式搭建完整路由器，用于端到端验证路由与角色门禁
func newAppRouter(t *testing.T) (*gin.Engine, *auth.SessionStore) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to access underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.Migrate(database); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGormUserRepository(database)
	entityRepo := repositories.NewGormEntityRepository(database)
	dmtRepo := repositories.NewGormDMTRepository(database)
	auditRepo := repositories.NewGormAuditRepository(database)

	pageSize := configs.AppConfig.PageSize
	userService := services.NewUserService(userRepo)
	entityService := services.NewEntityService(entityRepo, pageSize)
	dmtService := services.NewDMTService(dmtRepo)
	importService := services.NewImportService(entityRepo, pageSize)
	exportService := services.NewExportService()
	dashboardService := services.NewDashboardService(database, dmtRepo)

	sessions := auth.NewSessionStore(time.Hour)
	h := &Handlers{
		Sessions:  sessions,
		Auth:      handlers.NewAuthHandler(userRepo, sessions),
		Entity:    handlers.NewEntityHandler(entityService, importService, exportService, pageSize),
		DMT:       handlers.NewDMTHandler(dmtService, exportService, pageSize),
		User:      handlers.NewUserHandler(userService),
		Audit:     handlers.NewAuditHandler(auditRepo),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
	}

	router := gin.New()
	SetupRoutes(router, h)
	return router, sessions
}

// doAs 以给定角色的已登录用户身份发起请求
func doAs(t *testing.T, router *gin.Engine, sessions *auth.SessionStore, role, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	sessionID, expiresAt := sessions.Create("user-"+role, "user-"+role, role)
	token, err := auth.IssueSessionToken(sessionID, "user-"+role, "user-"+role, role, expiresAt)
	if err != nil {
		t.Fatalf("IssueSessionToken failed: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createDMTRecordAs 通过真实路由创建一条 DMT 记录并返回其 ID
func createDMTRecordAs(t *testing.T, router *gin.Engine, sessions *auth.SessionStore, role string) string {
	t.Helper()

	payload := map[string]interface{}{
		"disposition":        "Scrap",
		"dispositionDate":    "2026-08-15",
		"engineer":           "王工",
		"failureCode":        "FC-07",
		"reworkHours":        2.5,
		"responsibleDept":    "质量部",
		"materialScrapCost":  100.0,
		"othersCost":         0.0,
		"engineeringRemarks": "不可修复",
		"repairProcess":      "报废处理",
	}
	body, _ := json.Marshal(payload)

	w := doAs(t, router, sessions, role, http.MethodPost, "/api/v1/dmt", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating record, got %d (%s)", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.DMTRecord `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Fatal("expected created record to carry an id")
	}
	return resp.Data.ID
}

func TestRoutesRejectUnauthenticated(t *testing.T) {
	router, _ := newAppRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dmt", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without session cookie, got %d", w.Code)
	}
}

func TestDMTCloseAndReopenRoleGates(t *testing.T) {
	router, sessions := newAppRouter(t)
	id := createDMTRecordAs(t, router, sessions, models.RoleEngineer)

	// 关闭仅限 Admin 与 Quality Manager
	if w := doAs(t, router, sessions, models.RoleInspector, http.MethodPost, "/api/v1/dmt/"+id+"/close", nil); w.Code != http.StatusForbidden {
		t.Errorf("Inspector close: expected 403, got %d (%s)", w.Code, w.Body.String())
	}
	if w := doAs(t, router, sessions, models.RoleQualityManager, http.MethodPost, "/api/v1/dmt/"+id+"/close", nil); w.Code != http.StatusOK {
		t.Errorf("Quality Manager close: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	// 重新打开仅限 Admin 与 Inspector
	if w := doAs(t, router, sessions, models.RoleQualityManager, http.MethodPost, "/api/v1/dmt/"+id+"/reopen", nil); w.Code != http.StatusForbidden {
		t.Errorf("Quality Manager reopen: expected 403, got %d (%s)", w.Code, w.Body.String())
	}
	if w := doAs(t, router, sessions, models.RoleInspector, http.MethodPost, "/api/v1/dmt/"+id+"/reopen", nil); w.Code != http.StatusOK {
		t.Errorf("Inspector reopen: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestDMTDeleteAndExportRoleGates(t *testing.T) {
	router, sessions := newAppRouter(t)
	id := createDMTRecordAs(t, router, sessions, models.RoleEngineer)

	// 导出仅限 Admin 与 Quality Manager
	if w := doAs(t, router, sessions, models.RoleInspector, http.MethodGet, "/api/v1/dmt/export/csv", nil); w.Code != http.StatusForbidden {
		t.Errorf("Inspector export: expected 403, got %d", w.Code)
	}
	if w := doAs(t, router, sessions, models.RoleQualityManager, http.MethodGet, "/api/v1/dmt/export/csv", nil); w.Code != http.StatusOK {
		t.Errorf("Quality Manager export: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	// 删除仅限 Admin 与 Quality Manager
	if w := doAs(t, router, sessions, models.RoleEngineer, http.MethodDelete, "/api/v1/dmt/"+id, nil); w.Code != http.StatusForbidden {
		t.Errorf("Engineer delete: expected 403, got %d", w.Code)
	}
	if w := doAs(t, router, sessions, models.RoleAdmin, http.MethodDelete, "/api/v1/dmt/"+id, nil); w.Code != http.StatusOK {
		t.Errorf("Admin delete: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUserRoutesAdminOnly(t *testing.T) {
	router, sessions := newAppRouter(t)

	if w := doAs(t, router, sessions, models.RoleQualityManager, http.MethodGet, "/api/v1/users", nil); w.Code != http.StatusForbidden {
		t.Errorf("Quality Manager list users: expected 403, got %d", w.Code)
	}
	if w := doAs(t, router, sessions, models.RoleAdmin, http.MethodGet, "/api/v1/users", nil); w.Code != http.StatusOK {
		t.Errorf("Admin list users: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}
