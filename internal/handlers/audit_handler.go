package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/pkg/utils"
)

// AuditHandler 封装了审计日志查询相关的 HTTP 处理逻辑
type AuditHandler struct {
	repo repositories.AuditRepository
}

// NewAuditHandler 创建一个新的 AuditHandler 实例
func NewAuditHandler(repo repositories.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListRecent godoc
// @Summary 获取最近的审计日志
// @Description 按时间倒序返回最近的审计条目，默认 100 条，最多 1000 条
// @Tags Audit
// @Produce json
// @Param limit query int false "返回条数" default(100)
// @Success 200 {object} utils.SuccessResponse{data=[]models.AuditEntry}
// @Failure 401 {object} utils.APIErrorResponse "未认证或会话无效/过期"
// @Router /audit [get]
func (h *AuditHandler) ListRecent(c *gin.Context) {
	type listQuery struct {
		Limit int `form:"limit,default=100"`
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Limit > 1000 {
		q.Limit = 1000
	}

	entries, err := h.repo.ListRecent(q.Limit)
	if err != nil {
		log.Printf("Failed to list audit entries: %v", err)
		utils.RespondInternalServerError(c, "获取审计日志失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, entries, "")
}

// ListByEntity godoc
// @Summary 获取某条记录的审计历史
// @Description 按时间倒序返回指定实体类型与ID的全部审计条目
// @Tags Audit
// @Produce json
// @Param entityType path string true "实体类型（如 dmt_records、employees、users）"
// @Param entityId path string true "记录ID"
// @Success 200 {object} utils.SuccessResponse{data=[]models.AuditEntry}
// @Router /audit/{entityType}/{entityId} [get]
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entries, err := h.repo.ListByEntity(c.Param("entityType"), c.Param("entityId"))
	if err != nil {
		log.Printf("Failed to list audit entries for %s/%s: %v", c.Param("entityType"), c.Param("entityId"), err)
		utils.RespondInternalServerError(c, "获取审计日志失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, entries, "")
}
