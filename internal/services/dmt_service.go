package services

import (
	"errors"
	"strings"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/pkg/utils"
)

// ErrDMTNotFound 表示 DMT 记录未找到（或已被软删除）
var ErrDMTNotFound = errors.New("DMT 记录未找到")

// ErrNoFieldsToUpdate 表示部分更新请求没有携带任何字段
var ErrNoFieldsToUpdate = errors.New("没有提供任何有效的更新字段")

// ErrMissingRequiredField 表示创建时缺失必填字段（去除空白后为空）
var ErrMissingRequiredField = errors.New("必填字段不能为空")

// ErrNoRecordsToExport 表示没有可导出的 DMT 记录
var ErrNoRecordsToExport = errors.New("没有可导出的记录")

// DMTService 定义了 DMT 记录服务的接口。
// 角色门禁由路由中间件完成；这一层负责字段校验和状态机语义。
type DMTService interface {
	ListDMTRecords(search, part string, page, limit int) ([]models.DMTRecord, int64, error)
	GetDMTRecord(id string) (*models.DMTRecord, error)
	CreateDMTRecord(payload models.CreateDMTPayload, userID string) (*models.DMTRecord, error)
	UpdateDMTRecord(id string, payload models.UpdateDMTPayload, userID string) (*models.DMTRecord, error)
	CloseDMTRecord(id, userID string) error
	ReopenDMTRecord(id, userID string) error
	DeleteDMTRecord(id, userID string) error
	// ExportDMTRecords 返回待导出的活跃记录。零行是错误：返回 ErrNoRecordsToExport。
	ExportDMTRecords(days int) ([]models.DMTRecord, error)
}

// dmtService 是 DMTService 的实现
type dmtService struct {
	repo repositories.DMTRepository
}

// NewDMTService 创建一个新的 dmtService 实例
func NewDMTService(repo repositories.DMTRepository) DMTService {
	return &dmtService{repo: repo}
}

// ListDMTRecords 处理 DMT 记录列表查询
func (s *dmtService) ListDMTRecords(search, part string, page, limit int) ([]models.DMTRecord, int64, error) {
	if err := utils.ValidatePagination(page, limit); err != nil {
		return nil, 0, err
	}
	return s.repo.List(strings.TrimSpace(search), strings.TrimSpace(part), page, limit)
}

// GetDMTRecord 按 ID 获取一条活跃记录
func (s *dmtService) GetDMTRecord(id string) (*models.DMTRecord, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrDMTNotFound
		}
		return nil, err
	}
	return record, nil
}

// requiredTrimmed 校验必填字符串字段去除空白后非空
func requiredTrimmed(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrMissingRequiredField
		}
	}
	return nil
}

// CreateDMTRecord 校验必填字段并创建记录。
// 新记录总是 status=open、is_active=true，ID 由仓库层生成。
func (s *dmtService) CreateDMTRecord(payload models.CreateDMTPayload, userID string) (*models.DMTRecord, error) {
	if err := requiredTrimmed(
		payload.Disposition,
		payload.DispositionDate,
		payload.Engineer,
		payload.FailureCode,
		payload.ResponsibleDept,
		payload.EngineeringRemarks,
		payload.RepairProcess,
	); err != nil {
		return nil, err
	}
	// 指针绑定保证了必填数值字段一定存在（显式的 0 也合法）
	if payload.ReworkHours == nil || payload.MaterialScrapCost == nil || payload.OthersCost == nil {
		return nil, ErrMissingRequiredField
	}

	record := &models.DMTRecord{
		WorkCenter:         payload.WorkCenter,
		PartNum:            payload.PartNum,
		Operation:          payload.Operation,
		EmployeeName:       payload.EmployeeName,
		Qty:                payload.Qty,
		Customer:           payload.Customer,
		ShopOrder:          payload.ShopOrder,
		SerialNumber:       payload.SerialNumber,
		InspectionItem:     payload.InspectionItem,
		Date:               payload.Date,
		PreparedBy:         payload.PreparedBy,
		Description:        payload.Description,
		CarType:            payload.CarType,
		CarCycle:           payload.CarCycle,
		CarSecondCycleDate: payload.CarSecondCycleDate,
		ProcessDescription: payload.ProcessDescription,
		Analysis:           payload.Analysis,
		AnalysisBy:         payload.AnalysisBy,
		Disposition:        strings.TrimSpace(payload.Disposition),
		DispositionDate:    strings.TrimSpace(payload.DispositionDate),
		Engineer:           strings.TrimSpace(payload.Engineer),
		FailureCode:        strings.TrimSpace(payload.FailureCode),
		ReworkHours:        *payload.ReworkHours,
		ResponsibleDept:    strings.TrimSpace(payload.ResponsibleDept),
		MaterialScrapCost:  *payload.MaterialScrapCost,
		OthersCost:         *payload.OthersCost,
		EngineeringRemarks: strings.TrimSpace(payload.EngineeringRemarks),
		RepairProcess:      strings.TrimSpace(payload.RepairProcess),
	}

	if err := s.repo.Create(record, userID); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateDMTRecord 对活跃记录做部分更新。只有请求中显式出现的字段才会变化。
func (s *dmtService) UpdateDMTRecord(id string, payload models.UpdateDMTPayload, userID string) (*models.DMTRecord, error) {
	updates := make(map[string]interface{})

	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setFloat := func(column string, value *float64) {
		if value != nil {
			updates[column] = *value
		}
	}
	// 必填字段可以更新，但不允许被清空
	blankRequired := false
	setRequiredString := func(column string, value *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			blankRequired = true
			return
		}
		updates[column] = trimmed
	}

	setString("work_center", payload.WorkCenter)
	setString("part_num", payload.PartNum)
	setString("operation", payload.Operation)
	setString("employee_name", payload.EmployeeName)
	setString("qty", payload.Qty)
	setString("customer", payload.Customer)
	setString("shop_order", payload.ShopOrder)
	setString("serial_number", payload.SerialNumber)
	setString("inspection_item", payload.InspectionItem)
	setString("date", payload.Date)
	setString("prepared_by", payload.PreparedBy)
	setString("description", payload.Description)
	setString("car_type", payload.CarType)
	setString("car_cycle", payload.CarCycle)
	setString("car_second_cycle_date", payload.CarSecondCycleDate)
	setString("process_description", payload.ProcessDescription)
	setString("analysis", payload.Analysis)
	setString("analysis_by", payload.AnalysisBy)
	setRequiredString("disposition", payload.Disposition)
	setRequiredString("disposition_date", payload.DispositionDate)
	setRequiredString("engineer", payload.Engineer)
	setRequiredString("failure_code", payload.FailureCode)
	setFloat("rework_hours", payload.ReworkHours)
	setRequiredString("responsible_dept", payload.ResponsibleDept)
	setFloat("material_scrap_cost", payload.MaterialScrapCost)
	setFloat("others_cost", payload.OthersCost)
	setRequiredString("engineering_remarks", payload.EngineeringRemarks)
	setRequiredString("repair_process", payload.RepairProcess)

	if blankRequired {
		return nil, ErrMissingRequiredField
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	record, err := s.repo.Update(id, updates, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrDMTNotFound
		}
		return nil, err
	}
	return record, nil
}

// CloseDMTRecord 将活跃记录置为 closed
func (s *dmtService) CloseDMTRecord(id, userID string) error {
	err := s.repo.SetStatus(id, models.DMTStatusClosed, models.AuditActionClose, userID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return ErrDMTNotFound
	}
	return err
}

// ReopenDMTRecord 将活跃记录重新置为 open
func (s *dmtService) ReopenDMTRecord(id, userID string) error {
	err := s.repo.SetStatus(id, models.DMTStatusOpen, models.AuditActionReopen, userID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return ErrDMTNotFound
	}
	return err
}

// DeleteDMTRecord 软删除一条活跃记录。公开 API 不提供恢复操作。
func (s *dmtService) DeleteDMTRecord(id, userID string) error {
	err := s.repo.SoftDelete(id, userID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return ErrDMTNotFound
	}
	return err
}

// ExportDMTRecords 返回待导出的活跃记录，零行视为 NotFound
func (s *dmtService) ExportDMTRecords(days int) ([]models.DMTRecord, error) {
	if err := utils.ValidateDays(days); err != nil {
		return nil, err
	}
	records, err := s.repo.ListForExport(days)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecordsToExport
	}
	return records, nil
}
