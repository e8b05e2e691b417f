package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/utils"
)

// EntityHandler 封装了基础数据（参考数据）相关的 HTTP 处理逻辑。
// 实体类型标签在这里解析和拒绝，未知标签不会到达服务层。
type EntityHandler struct {
	service       services.EntityService
	importService services.ImportService
	exportService *services.ExportService
	pageSize      int
}

// NewEntityHandler 创建一个新的 EntityHandler 实例
func NewEntityHandler(service services.EntityService, importService services.ImportService, exportService *services.ExportService, pageSize int) *EntityHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &EntityHandler{
		service:       service,
		importService: importService,
		exportService: exportService,
		pageSize:      pageSize,
	}
}

// EntityPayload 定义了创建/更新基础数据条目的 JSON 结构体
type EntityPayload struct {
	Name           string  `json:"name" binding:"required,max=255"`
	EmployeeNumber *string `json:"employeeNumber,omitempty" binding:"omitempty,max=100"`
}

// PagedEntitiesData 定义了基础数据列表的分页响应结构
type PagedEntitiesData struct {
	Items      []models.ReferenceItem `json:"items"`
	Pagination PaginationInfo         `json:"pagination"`
}

// parseEntityType 解析路径中的实体类型标签；未知标签直接响应 400
func parseEntityType(c *gin.Context) (models.EntityType, bool) {
	et, err := models.ParseEntityType(c.Param("entity"))
	if err != nil {
		utils.RespondValidationError(c, fmt.Sprintf("未知的实体类型: %s", c.Param("entity")))
		return "", false
	}
	return et, true
}

// isEntityValidationError 判断错误是否属于应报 400 的输入校验错误
func isEntityValidationError(err error) bool {
	return errors.Is(err, utils.ErrEmptyName) ||
		errors.Is(err, utils.ErrNameTooLong) ||
		errors.Is(err, utils.ErrInvalidPage) ||
		errors.Is(err, utils.ErrInvalidPerPage) ||
		errors.Is(err, utils.ErrInvalidDays)
}

// ListEntities godoc
// @Summary 获取基础数据列表
// @Description 按实体类型获取条目，支持分页、按名称搜索和按创建天数过滤
// @Tags Entities
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Param search query string false "名称子串搜索（不区分大小写）"
// @Param days query int false "只看最近N天创建的条目"
// @Success 200 {object} utils.SuccessResponse{data=PagedEntitiesData}
// @Failure 400 {object} utils.APIErrorResponse "未知实体类型或参数错误"
// @Failure 401 {object} utils.APIErrorResponse "未认证或会话无效/过期"
// @Router /entities/{entity} [get]
func (h *EntityHandler) ListEntities(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	type listQuery struct {
		Page   int    `form:"page,default=1"`
		Limit  int    `form:"limit"`
		Search string `form:"search"`
		Days   int    `form:"days"`
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if q.Limit <= 0 {
		q.Limit = h.pageSize
	}

	items, total, err := h.service.ListEntities(et, q.Page, q.Limit, q.Search, q.Days)
	if err != nil {
		if isEntityValidationError(err) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to list %s: %v", et, err)
		utils.RespondInternalServerError(c, "获取列表失败")
		return
	}

	data := PagedEntitiesData{
		Items:      items,
		Pagination: newPaginationInfo(total, q.Page, q.Limit),
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// GetEntity godoc
// @Summary 获取单个基础数据条目
// @Tags Entities
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param id path string true "条目ID"
// @Success 200 {object} utils.SuccessResponse{data=models.ReferenceItem}
// @Failure 404 {object} utils.APIErrorResponse "条目未找到"
// @Router /entities/{entity}/{id} [get]
func (h *EntityHandler) GetEntity(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	item, err := h.service.GetEntity(et, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			utils.RespondNotFoundError(c, "条目")
			return
		}
		log.Printf("Failed to get %s/%s: %v", et, c.Param("id"), err)
		utils.RespondInternalServerError(c, "获取条目失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, item, "")
}

// CreateEntity godoc
// @Summary 新增基础数据条目
// @Description 名称去除首尾空白后不能为空。employees 类型可附带 employeeNumber。
// @Tags Entities
// @Accept json
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param item body EntityPayload true "条目内容"
// @Success 201 {object} utils.SuccessResponse{data=models.ReferenceItem}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败"
// @Router /entities/{entity} [post]
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	var payload EntityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	item, err := h.service.CreateEntity(et, payload.Name, payload.EmployeeNumber, c.GetString("userID"))
	if err != nil {
		if isEntityValidationError(err) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to create %s: %v", et, err)
		utils.RespondInternalServerError(c, "创建条目失败")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, item, "条目创建成功")
}

// UpdateEntity godoc
// @Summary 更新基础数据条目
// @Tags Entities
// @Accept json
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param id path string true "条目ID"
// @Param item body EntityPayload true "条目内容"
// @Success 200 {object} utils.SuccessResponse{data=models.ReferenceItem}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败"
// @Failure 404 {object} utils.APIErrorResponse "条目未找到"
// @Router /entities/{entity}/{id} [put]
func (h *EntityHandler) UpdateEntity(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	var payload EntityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	item, err := h.service.UpdateEntity(et, c.Param("id"), payload.Name, payload.EmployeeNumber, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			utils.RespondNotFoundError(c, "条目")
			return
		}
		if isEntityValidationError(err) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to update %s/%s: %v", et, c.Param("id"), err)
		utils.RespondInternalServerError(c, "更新条目失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, item, "条目更新成功")
}

// DeleteEntity godoc
// @Summary 删除基础数据条目
// @Description 基础数据为物理删除，删除后不可恢复
// @Tags Entities
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param id path string true "条目ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.APIErrorResponse "条目未找到"
// @Router /entities/{entity}/{id} [delete]
func (h *EntityHandler) DeleteEntity(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	if err := h.service.DeleteEntity(et, c.Param("id"), c.GetString("userID")); err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			utils.RespondNotFoundError(c, "条目")
			return
		}
		log.Printf("Failed to delete %s/%s: %v", et, c.Param("id"), err)
		utils.RespondInternalServerError(c, "删除条目失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "条目删除成功")
}

// ExportEntities godoc
// @Summary 导出基础数据
// @Description 按实体类型导出全部条目为 CSV 或 JSON。零行导出合法：CSV 只含表头，JSON 信封 count=0。
// @Tags Entities
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param format path string true "导出格式 (csv 或 json)"
// @Param days query int false "只导出最近N天创建的条目"
// @Success 200 {object} services.ExportEnvelope
// @Failure 400 {object} utils.APIErrorResponse "未知实体类型或格式"
// @Router /entities/{entity}/export/{format} [get]
func (h *EntityHandler) ExportEntities(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

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

	items, err := h.service.ListAllForExport(et, q.Days)
	if err != nil {
		if isEntityValidationError(err) {
			utils.RespondValidationError(c, err.Error())
			return
		}
		log.Printf("Failed to export %s: %v", et, err)
		utils.RespondInternalServerError(c, "导出失败")
		return
	}

	if format == services.ExportFormatCSV {
		csvText, err := h.exportService.ReferenceItemsToCSV(items)
		if err != nil {
			log.Printf("Failed to serialize %s export: %v", et, err)
			utils.RespondInternalServerError(c, "导出失败")
			return
		}
		filename := h.exportService.ExportFilename(string(et), format)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
		return
	}

	c.JSON(http.StatusOK, h.exportService.ReferenceItemsToEnvelope(et, items))
}

// ImportEntities godoc
// @Summary 从 CSV 批量导入基础数据
// @Description 上传 CSV 文件，表头必须含 name 列（employees 还需 employee_number）。重名条目跳过。
// @Tags Entities
// @Accept multipart/form-data
// @Produce json
// @Param entity path string true "实体类型标签"
// @Param file formData file true "CSV 文件 (UTF-8)"
// @Success 200 {object} utils.SuccessResponse{data=services.ImportSummary}
// @Failure 400 {object} utils.APIErrorResponse "文件缺失或内容不合法"
// @Router /entities/{entity}/import [post]
func (h *EntityHandler) ImportEntities(c *gin.Context) {
	et, ok := parseEntityType(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondValidationError(c, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Failed to open uploaded file for %s import: %v", et, err)
		utils.RespondInternalServerError(c, "读取上传文件失败")
		return
	}
	defer file.Close()

	rows, parseErrors := h.importService.ParseCSV(file, et)
	if len(rows) == 0 && len(parseErrors) > 0 {
		utils.RespondValidationError(c, parseErrors)
		return
	}

	summary := h.importService.ImportRows(et, rows, c.GetString("userID"))
	summary.Errors = append(parseErrors, summary.Errors...)
	utils.RespondSuccess(c, http.StatusOK, summary, "导入完成")
}
