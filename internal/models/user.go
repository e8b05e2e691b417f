package models

import (
	"time"
)

// 系统支持的用户角色。角色值直接持久化到 users 表并随会话传递。
const (
	RoleAdmin          = "Admin"
	RoleQualityManager = "Quality Manager"
	RoleInspector      = "Inspector"
	RoleEngineer       = "Engineer"
	RoleSupervisor     = "Supervisor"
	RoleOperator       = "Operator"
	RoleViewer         = "Viewer"
)

// ValidRoles 列出所有合法角色，用于创建/更新用户时的校验。
var ValidRoles = []string{
	RoleAdmin,
	RoleQualityManager,
	RoleInspector,
	RoleEngineer,
	RoleSupervisor,
	RoleOperator,
	RoleViewer,
}

// IsValidRole 检查给定角色是否在合法角色列表中
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User 对应于数据库中的 users 表。
// 用户只做停用（is_active = false），从不物理删除。
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"column:username;unique;not null;size:255"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;size:255"` // 密码哈希不通过JSON暴露
	Role         string    `json:"role" gorm:"column:role;not null;default:'Viewer';size:50"`
	IsActive     bool      `json:"isActive" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 User 结构体对应的数据库表名
func (User) TableName() string {
	return "users"
}
