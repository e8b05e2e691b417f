package services

import (
	"errors"
	"strings"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/pkg/utils"
)

// ErrEntityNotFound 表示基础数据条目未找到
var ErrEntityNotFound = errors.New("条目未找到")

// EntityService 定义了基础数据服务的接口。
// 名称清洗和实体类型合法性在这一层完成，存储层只接受干净的输入。
type EntityService interface {
	ListEntities(et models.EntityType, page, limit int, search string, days int) ([]models.ReferenceItem, int64, error)
	GetEntity(et models.EntityType, id string) (*models.ReferenceItem, error)
	// ListAllForExport 逐页抓取全部匹配行。
	// 终止条件：某页返回 0 行，或累计行数已达到统计总数——两者满足其一即停，
	// 即使统计总数与实际返回行数不一致也不会死循环。
	ListAllForExport(et models.EntityType, days int) ([]models.ReferenceItem, error)
	CreateEntity(et models.EntityType, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error)
	UpdateEntity(et models.EntityType, id, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error)
	DeleteEntity(et models.EntityType, id, userID string) error
}

// entityService 是 EntityService 的实现
type entityService struct {
	repo     repositories.EntityRepository
	pageSize int
}

// NewEntityService 创建一个新的 entityService 实例。
// pageSize 用作导出抓取时的页大小。
func NewEntityService(repo repositories.EntityRepository, pageSize int) EntityService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &entityService{repo: repo, pageSize: pageSize}
}

// ListEntities 处理基础数据列表查询
func (s *entityService) ListEntities(et models.EntityType, page, limit int, search string, days int) ([]models.ReferenceItem, int64, error) {
	if err := utils.ValidatePagination(page, limit); err != nil {
		return nil, 0, err
	}
	if err := utils.ValidateDays(days); err != nil {
		return nil, 0, err
	}
	return s.repo.List(et, page, limit, strings.TrimSpace(search), days)
}

// GetEntity 按 ID 获取单个条目
func (s *entityService) GetEntity(et models.EntityType, id string) (*models.ReferenceItem, error) {
	item, err := s.repo.GetByID(et, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListAllForExport 为导出逐页抓取全部行
func (s *entityService) ListAllForExport(et models.EntityType, days int) ([]models.ReferenceItem, error) {
	if err := utils.ValidateDays(days); err != nil {
		return nil, err
	}

	var all []models.ReferenceItem
	page := 1
	for {
		items, total, err := s.repo.List(et, page, s.pageSize, "", days)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		if int64(len(all)) >= total {
			break
		}
		page++
	}
	return all, nil
}

// CreateEntity 校验并创建一个新条目。
// employee_number 只对支持它的实体类型持久化，其余类型忽略该字段。
func (s *entityService) CreateEntity(et models.EntityType, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error) {
	cleanName, err := utils.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	item := &models.ReferenceItem{Name: cleanName}
	if et.SupportsEmployeeNumber() && employeeNumber != nil {
		trimmed := strings.TrimSpace(*employeeNumber)
		if trimmed != "" {
			item.EmployeeNumber = &trimmed
		}
	}

	return s.repo.Create(et, item, userID)
}

// UpdateEntity 校验并更新一个条目
func (s *entityService) UpdateEntity(et models.EntityType, id, name string, employeeNumber *string, userID string) (*models.ReferenceItem, error) {
	cleanName, err := utils.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	var cleanNumber *string
	if et.SupportsEmployeeNumber() && employeeNumber != nil {
		trimmed := strings.TrimSpace(*employeeNumber)
		cleanNumber = &trimmed
	}

	item, err := s.repo.Update(et, id, cleanName, cleanNumber, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteEntity 物理删除一个条目
func (s *entityService) DeleteEntity(et models.EntityType, id, userID string) error {
	deleted, err := s.repo.Delete(et, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntityNotFound
	}
	return nil
}
