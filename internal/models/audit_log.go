package models

import (
	"time"
)

// 审计动作标签。每次成功的写操作恰好产生一条对应动作的审计记录。
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionClose  = "CLOSE"
	AuditActionReopen = "REOPEN"
)

// AuditEntry 对应于数据库中的 audit_log 表。
// 只追加，不修改：审计行与触发它的业务写操作在同一事务内提交。
type AuditEntry struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityType string    `json:"entityType" gorm:"column:entity_type;not null;size:100"`
	EntityID   string    `json:"entityId" gorm:"column:entity_id;not null;size:36;index"`
	Action     string    `json:"action" gorm:"column:action;not null;size:20"`
	UserID     *string   `json:"userId,omitempty" gorm:"column:user_id;size:36"`
	Changes    *string   `json:"changes,omitempty" gorm:"column:changes"` // 变更内容的 JSON 快照，可为空
	Timestamp  time.Time `json:"timestamp" gorm:"column:timestamp;not null;autoCreateTime;index"`
}

// TableName 指定 AuditEntry 结构体对应的数据库表名
func (AuditEntry) TableName() string {
	return "audit_log"
}
