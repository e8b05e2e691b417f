package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/utils"
)

// DMTHandler 封装了 DMT 不良品记录相关的 HTTP 处理逻辑
type DMTHandler struct {
	service       services.DMTService
	exportService *services.ExportService
	pageSize      int
}

// NewDMTHandler 创建一个新的 DMTHandler 实例
func NewDMTHandler(service services.DMTService, exportService *services.ExportService, pageSize int) *DMTHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &DMTHandler{
		service:       service,
		exportService: exportService,
		pageSize:      pageSize,
	}
}

// PagedDMTData 定义了 DMT 记录列表的分页响应结构
type PagedDMTData struct {
	Items      []models.DMTRecord `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}

// ListDMTRecords godoc
// @Summary 获取 DMT 记录列表
// @Description 只返回活跃记录，支持分页、按描述/料号搜索和按料号精确过滤
// @Tags DMT
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Param search query string false "描述或料号子串搜索"
// @Param part query string false "按料号精确过滤"
// @Success 200 {object} utils.SuccessResponse{data=PagedDMTData}
// @Failure 400 {object} utils.APIErrorResponse "参数错误"
// @Failure 401 {object} utils.APIErrorResponse "未认证或会话无效/过期"
// @Router /dmt [get]
func (h *DMTHandler) ListDMTRecords(c *gin.Context) {
	type listQuery struct {
		Page   int    `form:"page,default=1"`
		Limit  int    `form:"limit"`
		Search string `form:"search"`
		Part   string `form:"part"`
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if q.Limit <= 0 {
		q.Limit = h.pageSize
	}

	records, total, err := h.service.ListDMTRecords(q.Search, q.Part, q.Page, q.Limit)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidPage) || errors.Is(err, utils.ErrInvalidPerPage) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to list DMT records: %v", err)
		utils.RespondInternalServerError(c, "获取 DMT 记录列表失败")
		return
	}

	data := PagedDMTData{
		Items:      records,
		Pagination: newPaginationInfo(total, q.Page, q.Limit),
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// GetDMTRecord godoc
// @Summary 获取单条 DMT 记录
// @Tags DMT
// @Produce json
// @Param id path string true "DMT 记录ID"
// @Success 200 {object} utils.SuccessResponse{data=models.DMTRecord}
// @Failure 404 {object} utils.APIErrorResponse "记录未找到或已删除"
// @Router /dmt/{id} [get]
func (h *DMTHandler) GetDMTRecord(c *gin.Context) {
	record, err := h.service.GetDMTRecord(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDMTNotFound) {
			utils.RespondNotFoundError(c, "DMT 记录")
			return
		}
		log.Printf("Failed to get DMT record %s: %v", c.Param("id"), err)
		utils.RespondInternalServerError(c, "获取 DMT 记录失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record, "")
}

// CreateDMTRecord godoc
// @Summary 新增 DMT 记录
// @Description 必填字段缺失时返回 400。新记录状态固定为 open。
// @Tags DMT
// @Accept json
// @Produce json
// @Param record body models.CreateDMTPayload true "记录内容"
// @Success 201 {object} utils.SuccessResponse{data=models.DMTRecord}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败"
// @Router /dmt [post]
func (h *DMTHandler) CreateDMTRecord(c *gin.Context) {
	var payload models.CreateDMTPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	record, err := h.service.CreateDMTRecord(payload, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, services.ErrMissingRequiredField) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to create DMT record: %v", err)
		utils.RespondInternalServerError(c, "创建 DMT 记录失败")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, record, "DMT 记录创建成功")
}

// UpdateDMTRecord godoc
// @Summary 更新 DMT 记录
// @Description 部分更新：只修改请求体中出现的字段。空请求体返回 400。
// @Tags DMT
// @Accept json
// @Produce json
// @Param id path string true "DMT 记录ID"
// @Param record body models.UpdateDMTPayload true "待更新字段"
// @Success 200 {object} utils.SuccessResponse{data=models.DMTRecord}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败或无更新字段"
// @Failure 404 {object} utils.APIErrorResponse "记录未找到或已删除"
// @Router /dmt/{id} [put]
func (h *DMTHandler) UpdateDMTRecord(c *gin.Context) {
	var payload models.UpdateDMTPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	record, err := h.service.UpdateDMTRecord(c.Param("id"), payload, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDMTNotFound):
			utils.RespondNotFoundError(c, "DMT 记录")
		case errors.Is(err, services.ErrNoFieldsToUpdate), errors.Is(err, services.ErrMissingRequiredField):
			utils.RespondValidationError(c, err.Error())
		default:
			log.Printf("Failed to update DMT record %s: %v", c.Param("id"), err)
			utils.RespondInternalServerError(c, "更新 DMT 记录失败")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record, "DMT 记录更新成功")
}

// CloseDMTRecord godoc
// @Summary 关闭 DMT 记录
// @Description 仅 Admin 与 Quality Manager 可操作
// @Tags DMT
// @Produce json
// @Param id path string true "DMT 记录ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.APIErrorResponse "角色无权操作"
// @Failure 404 {object} utils.APIErrorResponse "记录未找到或已删除"
// @Router /dmt/{id}/close [post]
func (h *DMTHandler) CloseDMTRecord(c *gin.Context) {
	h.setStatus(c, h.service.CloseDMTRecord, "DMT 记录已关闭", "关闭 DMT 记录失败")
}

// ReopenDMTRecord godoc
// @Summary 重新打开 DMT 记录
// @Description 仅 Admin 与 Inspector 可操作
// @Tags DMT
// @Produce json
// @Param id path string true "DMT 记录ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.APIErrorResponse "角色无权操作"
// @Failure 404 {object} utils.APIErrorResponse "记录未找到或已删除"
// @Router /dmt/{id}/reopen [post]
func (h *DMTHandler) ReopenDMTRecord(c *gin.Context) {
	h.setStatus(c, h.service.ReopenDMTRecord, "DMT 记录已重新打开", "重新打开 DMT 记录失败")
}

// DeleteDMTRecord godoc
// @Summary 删除 DMT 记录（软删除）
// @Description 仅 Admin 与 Quality Manager 可操作。记录被标记为不活跃，后续读取返回 404。
// @Tags DMT
// @Produce json
// @Param id path string true "DMT 记录ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.APIErrorResponse "角色无权操作"
// @Failure 404 {object} utils.APIErrorResponse "记录未找到或已删除"
// @Router /dmt/{id} [delete]
func (h *DMTHandler) DeleteDMTRecord(c *gin.Context) {
	h.setStatus(c, h.service.DeleteDMTRecord, "DMT 记录删除成功", "删除 DMT 记录失败")
}

// setStatus 处理 close/reopen/delete 这类只带 ID 的状态变更请求
func (h *DMTHandler) setStatus(c *gin.Context, op func(id, userID string) error, okMessage, failMessage string) {
	id := c.Param("id")
	if err := op(id, c.GetString("userID")); err != nil {
		if errors.Is(err, services.ErrDMTNotFound) {
			utils.RespondNotFoundError(c, "DMT 记录")
			return
		}
		log.Printf("%s %s: %v", failMessage, id, err)
		utils.RespondInternalServerError(c, failMessage)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, okMessage)
}

// ExportDMTRecords godoc
// @Summary 导出 DMT 记录
// @Description 导出全部活跃记录为 CSV 或 JSON。无可导出记录时返回 404。仅 Admin 与 Quality Manager 可操作。
// @Tags DMT
// @Produce json
// @Param format path string true "导出格式 (csv 或 json)"
// @Param days query int false "只导出最近N天创建的记录"
// @Success 200 {object} services.ExportEnvelope
// @Failure 400 {object} utils.APIErrorResponse "无效格式或参数"
// @Failure 404 {object} utils.APIErrorResponse "没有可导出的记录"
// @Router /dmt/export/{format} [get]
func (h *DMTHandler) ExportDMTRecords(c *gin.Context) {
	format := c.Param("format")
	if err := services.ValidateExportFormat(format); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	type exportQuery struct {
		Days int `form:"days"`
	}
	var q exportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	records, err := h.service.ExportDMTRecords(q.Days)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoRecordsToExport):
			utils.RespondNotFoundError(c, "可导出的 DMT 记录")
		case errors.Is(err, utils.ErrInvalidDays):
			utils.RespondValidationError(c, err.Error())
		default:
			log.Printf("Failed to export DMT records: %v", err)
			utils.RespondInternalServerError(c, "导出 DMT 记录失败")
		}
		return
	}

	if format == services.ExportFormatCSV {
		csvText, err := h.exportService.DMTRecordsToCSV(records)
		if err != nil {
			log.Printf("Failed to serialize DMT export: %v", err)
			utils.RespondInternalServerError(c, "导出 DMT 记录失败")
			return
		}
		filename := h.exportService.ExportFilename("dmt_records", format)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
		return
	}

	c.JSON(http.StatusOK, h.exportService.DMTRecordsToEnvelope(records))
}
