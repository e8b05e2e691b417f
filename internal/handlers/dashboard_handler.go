package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/utils"
)

// DashboardHandler 封装了仪表盘统计相关的 HTTP 处理逻辑
type DashboardHandler struct {
	service services.DashboardService
}

// NewDashboardHandler 创建一个新的 DashboardHandler 实例
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats godoc
// @Summary 获取仪表盘统计数据
// @Description 返回 DMT 记录总量、开放/关闭数量、平均返工工时、不合格成本、失效代码分布和各基础数据表的条目数
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=services.DashboardStats}
// @Failure 401 {object} utils.APIErrorResponse "未认证或会话无效/过期"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		log.Printf("Failed to compute dashboard stats: %v", err)
		utils.RespondInternalServerError(c, "获取统计数据失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, stats, "")
}
