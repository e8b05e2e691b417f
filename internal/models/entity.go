package models

import (
	"errors"
	"time"
)

// ErrUnknownEntityType 表示请求中携带的实体类型标签不在封闭枚举内
var ErrUnknownEntityType = errors.New("未知的实体类型")

// EntityType 是基础数据（参考数据）类别的封闭枚举。
// 每个类型对应一张同构的数据库表，表名即枚举值。
type EntityType string

const (
	EntityEmployees       EntityType = "employees"
	EntityLevels          EntityType = "levels"
	EntityAreas           EntityType = "areas"
	EntityPartNumbers     EntityType = "partnumbers"
	EntityCalibrations    EntityType = "calibrations"
	EntityWorkCenters     EntityType = "workcenters"
	EntityCustomers       EntityType = "customers"
	EntityInspectionItems EntityType = "inspection_items"
	EntityPreparedBy      EntityType = "prepared_by"
	EntityCarTypes        EntityType = "car_types"
	EntityDispositions    EntityType = "dispositions"
	EntityFailureCodes    EntityType = "failure_codes"
)

// AllEntityTypes 按固定顺序列出全部实体类型，供迁移和统计遍历。
var AllEntityTypes = []EntityType{
	EntityEmployees,
	EntityLevels,
	EntityAreas,
	EntityPartNumbers,
	EntityCalibrations,
	EntityWorkCenters,
	EntityCustomers,
	EntityInspectionItems,
	EntityPreparedBy,
	EntityCarTypes,
	EntityDispositions,
	EntityFailureCodes,
}

// ParseEntityType 在系统边界处校验实体类型标签。
// 未知标签返回 ErrUnknownEntityType，调用方应报参数错误而非继续向存储层传递。
func ParseEntityType(tag string) (EntityType, error) {
	et := EntityType(tag)
	for _, known := range AllEntityTypes {
		if et == known {
			return et, nil
		}
	}
	return "", ErrUnknownEntityType
}

// TableName 返回该实体类型对应的数据库表名
func (et EntityType) TableName() string {
	return string(et)
}

// SupportsEmployeeNumber 报告该实体类型是否携带额外的 employee_number 字段。
// 目前只有 employees 类型支持。
func (et EntityType) SupportsEmployeeNumber() bool {
	return et == EntityEmployees
}

// ReferenceItem 是所有基础数据表共享的行结构。
// EmployeeNumber 仅对 employees 类型有意义，其余表中保持为 NULL。
type ReferenceItem struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Name           string    `json:"name" gorm:"column:name;not null;size:255"`
	EmployeeNumber *string   `json:"employeeNumber,omitempty" gorm:"column:employee_number;size:100"`
	CreatedAt      time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}
