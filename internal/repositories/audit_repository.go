package repositories

import (
	"encoding/json"

	"github.com/qms_management/internal/models"
	"gorm.io/gorm"
)

// AuditRepository 定义了审计日志仓库的查询接口。
// 审计行只追加：各仓库通过 appendAudit 在自己的事务内写入。
type AuditRepository interface {
	// ListRecent 返回最近的 limit 条审计记录，按时间倒序
	ListRecent(limit int) ([]models.AuditEntry, error)
	// ListByEntity 返回某个实体的全部审计历史，按时间倒序
	ListByEntity(entityType, entityID string) ([]models.AuditEntry, error)
}

// gormAuditRepository 是 AuditRepository 的 GORM 实现
type gormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository 创建一个新的 gormAuditRepository 实例
func NewGormAuditRepository(db *gorm.DB) AuditRepository {
	return &gormAuditRepository{db: db}
}

// appendAudit 在事务 tx 内构造并写入一条审计记录。
// 若写入失败，外层事务应整体回滚，保证业务行与审计行的原子性。
func appendAudit(tx *gorm.DB, entityType, entityID, action, userID string, changes interface{}) error {
	entry, err := auditEntry(entityType, entityID, action, userID, changes)
	if err != nil {
		return err
	}
	return tx.Create(entry).Error
}

// ListRecent 返回最近的审计记录
func (r *gormAuditRepository) ListRecent(limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	if err := r.db.Order("timestamp desc, id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByEntity 返回指定实体的审计历史。
// 软删除的业务记录依然可以通过这里查询到完整历史。
func (r *gormAuditRepository) ListByEntity(entityType, entityID string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// auditEntry 构造一条待写入的审计记录。changes 为 nil 时不写变更快照。
func auditEntry(entityType, entityID, action, userID string, changes interface{}) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if changes != nil {
		raw, err := json.Marshal(changes)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		entry.Changes = &s
	}
	return entry, nil
}
