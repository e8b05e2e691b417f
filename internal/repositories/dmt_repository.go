package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qms_management/internal/models"
	"gorm.io/gorm"
)

const dmtEntityType = "dmt_records"

// DMTRepository 定义了 DMT 记录仓库的接口。
// 所有读取只返回 is_active = true 的行；软删除的行对读取和状态变更均不可见。
// 每个写操作与其审计记录在同一事务内提交。
type DMTRepository interface {
	// List 返回活跃记录的分页结果。
	// search 对 description 和 part_num 做 OR 子串匹配；
	// part 单独对 part_num 过滤；两者同时给出时取 AND。
	List(search, part string, page, limit int) ([]models.DMTRecord, int64, error)
	GetByID(id string) (*models.DMTRecord, error)
	// ListForExport 返回全部活跃记录，days > 0 时只含最近 days 天创建的
	ListForExport(days int) ([]models.DMTRecord, error)
	Create(record *models.DMTRecord, userID string) error
	// Update 对活跃记录做部分字段更新，未找到活跃记录时返回 ErrRecordNotFound
	Update(id string, updates map[string]interface{}, userID string) (*models.DMTRecord, error)
	// SetStatus 变更状态（close/reopen），审计动作由调用方给出
	SetStatus(id, status, auditAction, userID string) error
	// SoftDelete 将记录标记为不活跃。公开 API 不提供恢复操作。
	SoftDelete(id, userID string) error
	// CountByStatus 统计活跃记录数，status 为空时统计全部活跃记录
	CountByStatus(status string) (int64, error)
}

// gormDMTRepository 是 DMTRepository 的 GORM 实现
type gormDMTRepository struct {
	db *gorm.DB
}

// NewGormDMTRepository 创建一个新的 gormDMTRepository 实例
func NewGormDMTRepository(db *gorm.DB) DMTRepository {
	return &gormDMTRepository{db: db}
}

// activeQuery 构造只包含活跃记录的基础查询
func (r *gormDMTRepository) activeQuery() *gorm.DB {
	return r.db.Model(&models.DMTRecord{}).Where("is_active = ?", true)
}

// List 获取活跃 DMT 记录列表，支持分页与子串过滤
func (r *gormDMTRepository) List(search, part string, page, limit int) ([]models.DMTRecord, int64, error) {
	var records []models.DMTRecord
	var totalItems int64

	queryBuilder := r.activeQuery()

	if search != "" {
		searchTerm := "%" + search + "%"
		queryBuilder = queryBuilder.Where("description LIKE ? OR part_num LIKE ?", searchTerm, searchTerm)
	}
	if part != "" {
		queryBuilder = queryBuilder.Where("part_num LIKE ?", "%"+part+"%")
	}

	if err := queryBuilder.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := queryBuilder.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, totalItems, nil
}

// GetByID 按主键获取一条活跃记录
func (r *gormDMTRepository) GetByID(id string) (*models.DMTRecord, error) {
	var record models.DMTRecord
	err := r.activeQuery().Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListForExport 返回导出的活跃记录全集，按创建时间倒序
func (r *gormDMTRepository) ListForExport(days int) ([]models.DMTRecord, error) {
	var records []models.DMTRecord
	queryBuilder := r.activeQuery()
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		queryBuilder = queryBuilder.Where("created_at >= ?", cutoff)
	}
	if err := queryBuilder.Order("created_at desc, id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create 新建一条 DMT 记录并在同一事务内追加 CREATE 审计记录。
// 新记录强制为 open 且活跃，ID 为生成的 8 位大写标签号。
func (r *gormDMTRepository) Create(record *models.DMTRecord, userID string) error {
	record.ID = strings.ToUpper(uuid.NewString()[:8])
	record.Status = models.DMTStatusOpen
	record.IsActive = true
	if userID != "" {
		record.CreatedBy = &userID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		return appendAudit(tx, dmtEntityType, record.ID, models.AuditActionCreate, userID, nil)
	})
}

// Update 对活跃记录做部分更新并追加 UPDATE 审计记录
func (r *gormDMTRepository) Update(id string, updates map[string]interface{}, userID string) (*models.DMTRecord, error) {
	var updated models.DMTRecord

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.DMTRecord
		if err := tx.Where("id = ? AND is_active = ?", id, true).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		// 审计快照只记录调用方提交的字段，时间戳列不入快照
		changes := make(map[string]interface{}, len(updates))
		for k, v := range updates {
			changes[k] = v
		}

		updates["updated_at"] = time.Now()
		if err := tx.Model(&models.DMTRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, dmtEntityType, id, models.AuditActionUpdate, userID, changes); err != nil {
			return err
		}

		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetStatus 变更活跃记录的状态并追加对应动作的审计记录。
// 未找到活跃记录时返回 ErrRecordNotFound。
func (r *gormDMTRepository) SetStatus(id, status, auditAction, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DMTRecord{}).
			Where("id = ? AND is_active = ?", id, true).
			Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return appendAudit(tx, dmtEntityType, id, auditAction, userID, nil)
	})
}

// SoftDelete 将活跃记录标记为不活跃并追加 DELETE 审计记录
func (r *gormDMTRepository) SoftDelete(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DMTRecord{}).
			Where("id = ? AND is_active = ?", id, true).
			Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		return appendAudit(tx, dmtEntityType, id, models.AuditActionDelete, userID, nil)
	})
}

// CountByStatus 统计活跃记录数量
func (r *gormDMTRepository) CountByStatus(status string) (int64, error) {
	var count int64
	queryBuilder := r.activeQuery()
	if status != "" {
		queryBuilder = queryBuilder.Where("status = ?", status)
	}
	if err := queryBuilder.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
