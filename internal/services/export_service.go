package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/qms_management/internal/models"
)

// ErrInvalidExportFormat 表示导出格式标签不是 csv 或 json
var ErrInvalidExportFormat = errors.New("无效的导出格式，只支持 csv 或 json")

// 支持的导出格式标签
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ValidateExportFormat 在边界处校验导出格式标签
func ValidateExportFormat(format string) error {
	if format != ExportFormatCSV && format != ExportFormatJSON {
		return ErrInvalidExportFormat
	}
	return nil
}

// ExportEnvelope 是 JSON 导出的外层信封，标识实体和行数
type ExportEnvelope struct {
	Entity     string      `json:"entity"`
	Count      int         `json:"count"`
	ExportedAt time.Time   `json:"exportedAt"`
	Items      interface{} `json:"items"`
}

// exportTimeLayout 是导出文本中时间戳的统一格式
const exportTimeLayout = "2006-01-02 15:04:05"

// dmtCSVHeader 定义了 DMT 导出的固定列顺序（与模型字段声明顺序一致，
// is_active 不导出）。表头顺序是确定性的，不随行内容变化。
var dmtCSVHeader = []string{
	"id",
	"work_center", "part_num", "operation", "employee_name", "qty",
	"customer", "shop_order", "serial_number", "inspection_item", "date",
	"prepared_by", "description", "car_type", "car_cycle", "car_second_cycle_date",
	"process_description", "analysis", "analysis_by",
	"disposition", "disposition_date", "engineer", "failure_code", "rework_hours",
	"responsible_dept", "material_scrap_cost", "others_cost", "engineering_remarks",
	"repair_process",
	"status", "created_by", "created_at", "updated_at",
}

// referenceCSVHeader 定义了基础数据导出的固定列顺序。
// employee_number 列始终存在，不支持它的实体类型导出空值。
var referenceCSVHeader = []string{"id", "name", "employee_number", "created_at", "updated_at"}

// optStr 将可空字符串序列化为文本，NULL 导出为空串
func optStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// fmtFloat 将浮点值序列化为最短精确表示
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportService 将行集合序列化为 CSV 文本或 JSON 信封。
// CSV 引号/换行/分隔符转义由 encoding/csv 按标准规则处理。
type ExportService struct{}

// NewExportService 创建一个新的 ExportService 实例
func NewExportService() *ExportService {
	return &ExportService{}
}

// DMTRecordsToCSV 将 DMT 记录序列化为 CSV 文本（表头 + 每行一条记录）
func (s *ExportService) DMTRecordsToCSV(records []models.DMTRecord) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(dmtCSVHeader); err != nil {
		return "", err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			optStr(r.WorkCenter), optStr(r.PartNum), optStr(r.Operation), optStr(r.EmployeeName), optStr(r.Qty),
			optStr(r.Customer), optStr(r.ShopOrder), optStr(r.SerialNumber), optStr(r.InspectionItem), optStr(r.Date),
			optStr(r.PreparedBy), optStr(r.Description), optStr(r.CarType), optStr(r.CarCycle), optStr(r.CarSecondCycleDate),
			optStr(r.ProcessDescription), optStr(r.Analysis), optStr(r.AnalysisBy),
			r.Disposition, r.DispositionDate, r.Engineer, r.FailureCode, fmtFloat(r.ReworkHours),
			r.ResponsibleDept, fmtFloat(r.MaterialScrapCost), fmtFloat(r.OthersCost), r.EngineeringRemarks,
			r.RepairProcess,
			r.Status, optStr(r.CreatedBy), r.CreatedAt.Format(exportTimeLayout), r.UpdatedAt.Format(exportTimeLayout),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ReferenceItemsToCSV 将基础数据行序列化为 CSV 文本。
// 零行导出是合法的：结果只含表头。
func (s *ExportService) ReferenceItemsToCSV(items []models.ReferenceItem) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(referenceCSVHeader); err != nil {
		return "", err
	}
	for _, item := range items {
		row := []string{
			item.ID,
			item.Name,
			optStr(item.EmployeeNumber),
			item.CreatedAt.Format(exportTimeLayout),
			item.UpdatedAt.Format(exportTimeLayout),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DMTRecordsToEnvelope 将 DMT 记录包装为 JSON 导出信封
func (s *ExportService) DMTRecordsToEnvelope(records []models.DMTRecord) ExportEnvelope {
	return ExportEnvelope{
		Entity:     "dmt_records",
		Count:      len(records),
		ExportedAt: time.Now(),
		Items:      records,
	}
}

// ReferenceItemsToEnvelope 将基础数据行包装为 JSON 导出信封
func (s *ExportService) ReferenceItemsToEnvelope(et models.EntityType, items []models.ReferenceItem) ExportEnvelope {
	return ExportEnvelope{
		Entity:     string(et),
		Count:      len(items),
		ExportedAt: time.Now(),
		Items:      items,
	}
}

// ExportFilename 生成带时间戳的下载文件名
func (s *ExportService) ExportFilename(entityLabel, format string) string {
	return fmt.Sprintf("%s_%s.%s", entityLabel, time.Now().Format("20060102_150405"), format)
}
