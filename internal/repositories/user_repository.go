package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qms_management/internal/models"
	"gorm.io/gorm"
)

// ErrUsernameExists 表示用户名已被占用
var ErrUsernameExists = errors.New("用户名已存在")

const userEntityType = "users"

// UserRepository 定义了用户数据仓库的接口。
// 用户从不物理删除：Deactivate/Activate 翻转 is_active 标志。
type UserRepository interface {
	Create(user *models.User, actorID string) (*models.User, error)
	List() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	// GetActiveByUsername 只按用户名查找活跃用户，供登录使用
	GetActiveByUsername(username string) (*models.User, error)
	Update(id string, updates map[string]interface{}, actorID string) (*models.User, error)
	Deactivate(id, actorID string) error
	Activate(id, actorID string) error
	Count() (int64, error)
}

// gormUserRepository 是 UserRepository 的 GORM 实现
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建一个新的 gormUserRepository 实例
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create 创建新用户并追加 CREATE 审计记录。用户名唯一约束冲突返回 ErrUsernameExists。
func (r *gormUserRepository) Create(user *models.User, actorID string) (*models.User, error) {
	user.ID = uuid.NewString()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			// GORM 将数据库唯一约束违例包装为普通错误，SQLite 的报错文本包含约束信息
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint") || strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
				return ErrUsernameExists
			}
			return err
		}

		return appendAudit(tx, userEntityType, user.ID, models.AuditActionCreate, actorID,
			map[string]interface{}{"username": user.Username, "role": user.Role})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List 返回全部用户（含停用的），按创建时间倒序
func (r *gormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID 按主键获取用户
func (r *gormUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveByUsername 按用户名查找活跃用户
func (r *gormUserRepository) GetActiveByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 部分更新用户并追加 UPDATE 审计记录。未找到时返回 ErrRecordNotFound。
func (r *gormUserRepository) Update(id string, updates map[string]interface{}, actorID string) (*models.User, error) {
	var updated models.User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		// 审计快照只记录调用方提交的字段，且不记录密码哈希
		changes := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			if k == "password_hash" {
				changes[k] = "(changed)"
				continue
			}
			changes[k] = v
		}

		updates["updated_at"] = time.Now()
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint") || strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
				return ErrUsernameExists
			}
			return err
		}
		if err := appendAudit(tx, userEntityType, id, models.AuditActionUpdate, actorID, changes); err != nil {
			return err
		}

		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// setActive 翻转用户的活跃标志并追加审计记录
func (r *gormUserRepository) setActive(id string, active bool, action, actorID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return appendAudit(tx, userEntityType, id, action, actorID,
			map[string]interface{}{"is_active": active})
	})
}

// Deactivate 停用用户（软删除语义）
func (r *gormUserRepository) Deactivate(id, actorID string) error {
	return r.setActive(id, false, models.AuditActionDelete, actorID)
}

// Activate 恢复停用的用户
func (r *gormUserRepository) Activate(id, actorID string) error {
	return r.setActive(id, true, models.AuditActionUpdate, actorID)
}

// Count 返回用户总数（含停用的）
func (r *gormUserRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
