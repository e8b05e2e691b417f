package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/qms_management/internal/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound 表示记录未找到，直接重用 gorm 的错误
var ErrRecordNotFound = gorm.ErrRecordNotFound

// EntityRepository 定义了基础数据（参考数据）仓库的接口。
// 同一套 CRUD 按调用时传入的实体类型分发到对应的表。
type EntityRepository interface {
	// List 返回分页后的行和过滤后的总数。
	// search 非空时对 name 做大小写不敏感的子串匹配；
	// days > 0 时只返回最近 days 天内创建的行。
	List(et models.EntityType, page, limit int, search string, days int) ([]models.ReferenceItem, int64, error)
	GetByID(et models.EntityType, id string) (*models.ReferenceItem, error)
	// Create 新建一行并在同一事务内写入审计记录
	Create(et models.EntityType, item *models.ReferenceItem, userID string) (*models.ReferenceItem, error)
	// Update 更新名称（employees 类型可同时更新工号），未找到时返回 ErrRecordNotFound
	Update(et models.EntityType, id, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error)
	// Delete 物理删除一行，返回是否确有删除。基础数据表不做软删除。
	Delete(et models.EntityType, id, userID string) (bool, error)
}

// gormEntityRepository 是 EntityRepository 的 GORM 实现
type gormEntityRepository struct {
	db *gorm.DB
}

// NewGormEntityRepository 创建一个新的 gormEntityRepository 实例
func NewGormEntityRepository(db *gorm.DB) EntityRepository {
	return &gormEntityRepository{db: db}
}

// List 从实体类型对应的表中获取行，支持分页、按名称搜索和按创建天数过滤
func (r *gormEntityRepository) List(et models.EntityType, page, limit int, search string, days int) ([]models.ReferenceItem, int64, error) {
	var items []models.ReferenceItem
	var totalItems int64

	queryBuilder := r.db.Table(et.TableName())

	if search != "" {
		// SQLite 的 LIKE 对 ASCII 默认大小写不敏感
		queryBuilder = queryBuilder.Where("name LIKE ?", "%"+search+"%")
	}
	if days > 0 {
		// 截止时间在 Go 侧计算后按参数绑定，绝不拼接进 SQL 文本
		cutoff := time.Now().AddDate(0, 0, -days)
		queryBuilder = queryBuilder.Where("created_at >= ?", cutoff)
	}

	// 先基于过滤条件统计总数，再取分页数据
	if err := queryBuilder.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := queryBuilder.Order("created_at desc, id desc").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, totalItems, nil
}

// GetByID 按主键获取一行
func (r *gormEntityRepository) GetByID(et models.EntityType, id string) (*models.ReferenceItem, error) {
	var item models.ReferenceItem
	if err := r.db.Table(et.TableName()).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 在对应表中新建一行，并在同一事务内追加 CREATE 审计记录
func (r *gormEntityRepository) Create(et models.EntityType, item *models.ReferenceItem, userID string) (*models.ReferenceItem, error) {
	item.ID = uuid.NewString()[:8]

	changes := map[string]interface{}{"name": item.Name}
	if item.EmployeeNumber != nil {
		changes["employee_number"] = *item.EmployeeNumber
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(et.TableName()).Create(item).Error; err != nil {
			return err
		}

		return appendAudit(tx, string(et), item.ID, models.AuditActionCreate, userID, changes)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update 更新一行的名称（以及 employees 的工号），并追加 UPDATE 审计记录。
// 未找到记录时返回 ErrRecordNotFound。
func (r *gormEntityRepository) Update(et models.EntityType, id, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error) {
	var updated models.ReferenceItem

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var old models.ReferenceItem
		if err := tx.Table(et.TableName()).Where("id = ?", id).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"name":       name,
			"updated_at": time.Now(),
		}
		changes := map[string]interface{}{
			"old": map[string]interface{}{"name": old.Name},
			"new": map[string]interface{}{"name": name},
		}
		if et.SupportsEmployeeNumber() && employeeNumber != nil {
			updates["employee_number"] = *employeeNumber
			changes["old"].(map[string]interface{})["employee_number"] = old.EmployeeNumber
			changes["new"].(map[string]interface{})["employee_number"] = *employeeNumber
		}

		if err := tx.Table(et.TableName()).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if err := appendAudit(tx, string(et), id, models.AuditActionUpdate, userID, changes); err != nil {
			return err
		}

		return tx.Table(et.TableName()).Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 物理删除一行并追加 DELETE 审计记录。未找到时返回 (false, nil)。
func (r *gormEntityRepository) Delete(et models.EntityType, id, userID string) (bool, error) {
	deleted := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Table(et.TableName()).Where("id = ?", id).Delete(&models.ReferenceItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return appendAudit(tx, string(et), id, models.AuditActionDelete, userID, nil)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
