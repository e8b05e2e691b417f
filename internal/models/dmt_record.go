package models

import (
	"time"
)

// DMT 记录的状态机取值。软删除标志 is_active 与状态无关：
// is_active = false 的记录对所有读取和状态变更不可见。
const (
	DMTStatusOpen   = "open"
	DMTStatusClosed = "closed"
)

// DMTRecord 对应于数据库中的 dmt_records 表（缺陷/纠正措施记录）。
// 工程处置相关字段在创建时必填，其余描述性字段可选。
type DMTRecord struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	// 一般信息（可选）
	WorkCenter         *string `json:"workCenter,omitempty" gorm:"column:work_center;size:255"`
	PartNum            *string `json:"partNum,omitempty" gorm:"column:part_num;size:255"`
	Operation          *string `json:"operation,omitempty" gorm:"column:operation;size:255"`
	EmployeeName       *string `json:"employeeName,omitempty" gorm:"column:employee_name;size:255"`
	Qty                *string `json:"qty,omitempty" gorm:"column:qty;size:100"`
	Customer           *string `json:"customer,omitempty" gorm:"column:customer;size:255"`
	ShopOrder          *string `json:"shopOrder,omitempty" gorm:"column:shop_order;size:255"`
	SerialNumber       *string `json:"serialNumber,omitempty" gorm:"column:serial_number;size:255"`
	InspectionItem     *string `json:"inspectionItem,omitempty" gorm:"column:inspection_item;size:255"`
	Date               *string `json:"date,omitempty" gorm:"column:date;size:50"`
	PreparedBy         *string `json:"preparedBy,omitempty" gorm:"column:prepared_by;size:255"`
	Description        *string `json:"description,omitempty" gorm:"column:description"`
	CarType            *string `json:"carType,omitempty" gorm:"column:car_type;size:255"`
	CarCycle           *string `json:"carCycle,omitempty" gorm:"column:car_cycle;size:100"`
	CarSecondCycleDate *string `json:"carSecondCycleDate,omitempty" gorm:"column:car_second_cycle_date;size:50"`
	ProcessDescription *string `json:"processDescription,omitempty" gorm:"column:process_description"`
	Analysis           *string `json:"analysis,omitempty" gorm:"column:analysis"`
	AnalysisBy         *string `json:"analysisBy,omitempty" gorm:"column:analysis_by;size:255"`

	// 工程处置（创建时必填）
	Disposition        string  `json:"disposition" gorm:"column:disposition;not null;size:255"`
	DispositionDate    string  `json:"dispositionDate" gorm:"column:disposition_date;not null;size:50"`
	Engineer           string  `json:"engineer" gorm:"column:engineer;not null;size:255"`
	FailureCode        string  `json:"failureCode" gorm:"column:failure_code;not null;size:255"`
	ReworkHours        float64 `json:"reworkHours" gorm:"column:rework_hours;not null"`
	ResponsibleDept    string  `json:"responsibleDept" gorm:"column:responsible_dept;not null;size:255"`
	MaterialScrapCost  float64 `json:"materialScrapCost" gorm:"column:material_scrap_cost;not null"`
	OthersCost         float64 `json:"othersCost" gorm:"column:others_cost;not null"`
	EngineeringRemarks string  `json:"engineeringRemarks" gorm:"column:engineering_remarks;not null"`
	RepairProcess      string  `json:"repairProcess" gorm:"column:repair_process;not null"`

	// 元数据
	Status    string    `json:"status" gorm:"column:status;not null;default:'open';size:20"`
	IsActive  bool      `json:"isActive" gorm:"column:is_active;not null;default:true"`
	CreatedBy *string   `json:"createdBy,omitempty" gorm:"column:created_by;size:36"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 DMTRecord 结构体对应的数据库表名
func (DMTRecord) TableName() string {
	return "dmt_records"
}

// CreateDMTPayload 定义了创建 DMT 记录请求的 JSON 结构体。
// 必填的数值字段使用指针绑定，保证显式传入的 0 值能通过 required 校验。
type CreateDMTPayload struct {
	WorkCenter         *string `json:"workCenter,omitempty" binding:"omitempty,max=255"`
	PartNum            *string `json:"partNum,omitempty" binding:"omitempty,max=255"`
	Operation          *string `json:"operation,omitempty" binding:"omitempty,max=255"`
	EmployeeName       *string `json:"employeeName,omitempty" binding:"omitempty,max=255"`
	Qty                *string `json:"qty,omitempty" binding:"omitempty,max=100"`
	Customer           *string `json:"customer,omitempty" binding:"omitempty,max=255"`
	ShopOrder          *string `json:"shopOrder,omitempty" binding:"omitempty,max=255"`
	SerialNumber       *string `json:"serialNumber,omitempty" binding:"omitempty,max=255"`
	InspectionItem     *string `json:"inspectionItem,omitempty" binding:"omitempty,max=255"`
	Date               *string `json:"date,omitempty" binding:"omitempty,max=50"`
	PreparedBy         *string `json:"preparedBy,omitempty" binding:"omitempty,max=255"`
	Description        *string `json:"description,omitempty"`
	CarType            *string `json:"carType,omitempty" binding:"omitempty,max=255"`
	CarCycle           *string `json:"carCycle,omitempty" binding:"omitempty,max=100"`
	CarSecondCycleDate *string `json:"carSecondCycleDate,omitempty" binding:"omitempty,max=50"`
	ProcessDescription *string `json:"processDescription,omitempty"`
	Analysis           *string `json:"analysis,omitempty"`
	AnalysisBy         *string `json:"analysisBy,omitempty" binding:"omitempty,max=255"`

	Disposition        string   `json:"disposition" binding:"required,max=255"`
	DispositionDate    string   `json:"dispositionDate" binding:"required,max=50"`
	Engineer           string   `json:"engineer" binding:"required,max=255"`
	FailureCode        string   `json:"failureCode" binding:"required,max=255"`
	ReworkHours        *float64 `json:"reworkHours" binding:"required"`
	ResponsibleDept    string   `json:"responsibleDept" binding:"required,max=255"`
	MaterialScrapCost  *float64 `json:"materialScrapCost" binding:"required"`
	OthersCost         *float64 `json:"othersCost" binding:"required"`
	EngineeringRemarks string   `json:"engineeringRemarks" binding:"required"`
	RepairProcess      string   `json:"repairProcess" binding:"required"`
}

// UpdateDMTPayload 定义了部分更新 DMT 记录的 JSON 结构体。
// 全部字段可选，只有显式出现的字段才会被更新。
type UpdateDMTPayload struct {
	WorkCenter         *string `json:"workCenter,omitempty" binding:"omitempty,max=255"`
	PartNum            *string `json:"partNum,omitempty" binding:"omitempty,max=255"`
	Operation          *string `json:"operation,omitempty" binding:"omitempty,max=255"`
	EmployeeName       *string `json:"employeeName,omitempty" binding:"omitempty,max=255"`
	Qty                *string `json:"qty,omitempty" binding:"omitempty,max=100"`
	Customer           *string `json:"customer,omitempty" binding:"omitempty,max=255"`
	ShopOrder          *string `json:"shopOrder,omitempty" binding:"omitempty,max=255"`
	SerialNumber       *string `json:"serialNumber,omitempty" binding:"omitempty,max=255"`
	InspectionItem     *string `json:"inspectionItem,omitempty" binding:"omitempty,max=255"`
	Date               *string `json:"date,omitempty" binding:"omitempty,max=50"`
	PreparedBy         *string `json:"preparedBy,omitempty" binding:"omitempty,max=255"`
	Description        *string `json:"description,omitempty"`
	CarType            *string `json:"carType,omitempty" binding:"omitempty,max=255"`
	CarCycle           *string `json:"carCycle,omitempty" binding:"omitempty,max=100"`
	CarSecondCycleDate *string `json:"carSecondCycleDate,omitempty" binding:"omitempty,max=50"`
	ProcessDescription *string `json:"processDescription,omitempty"`
	Analysis           *string `json:"analysis,omitempty"`
	AnalysisBy         *string `json:"analysisBy,omitempty" binding:"omitempty,max=255"`

	Disposition        *string  `json:"disposition,omitempty" binding:"omitempty,max=255"`
	DispositionDate    *string  `json:"dispositionDate,omitempty" binding:"omitempty,max=50"`
	Engineer           *string  `json:"engineer,omitempty" binding:"omitempty,max=255"`
	FailureCode        *string  `json:"failureCode,omitempty" binding:"omitempty,max=255"`
	ReworkHours        *float64 `json:"reworkHours,omitempty"`
	ResponsibleDept    *string  `json:"responsibleDept,omitempty" binding:"omitempty,max=255"`
	MaterialScrapCost  *float64 `json:"materialScrapCost,omitempty"`
	OthersCost         *float64 `json:"othersCost,omitempty"`
	EngineeringRemarks *string  `json:"engineeringRemarks,omitempty"`
	RepairProcess      *string  `json:"repairProcess,omitempty"`
}
