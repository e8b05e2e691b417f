package services

import (
	"gorm.io/gorm"

	"github.com/qms_management/internal/models"
)

// FailureCodeCount 是按失效代码聚合的记录数
type FailureCodeCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DashboardStats 汇总仪表盘需要的关键统计指标。
// 所有统计只覆盖活跃（is_active = true）的 DMT 记录。
type DashboardStats struct {
	TotalDMT             int64              `json:"totalDmt"`
	OpenDMT              int64              `json:"openDmt"`
	ClosedDMT            int64              `json:"closedDmt"`
	AvgReworkHours       float64            `json:"avgReworkHours"`
	CostOfNonConformance float64            `json:"costOfNonConformance"`
	DMTByFailureCode     []FailureCodeCount `json:"dmtByFailureCode"`
	EntityCounts         map[string]int64   `json:"entityCounts"`
}

// DashboardService 计算仪表盘统计数据
type DashboardService interface {
	GetStats() (*DashboardStats, error)
}

// dashboardService 直接在数据库上做聚合查询。
// 每次请求都重新统计，不做任何缓存。
type dashboardService struct {
	db      *gorm.DB
	dmtRepo DMTCounter
}

// DMTCounter 是 dashboardService 对 DMT 仓库的最小依赖
type DMTCounter interface {
	CountByStatus(status string) (int64, error)
}

// NewDashboardService 创建一个新的 dashboardService 实例
func NewDashboardService(db *gorm.DB, dmtRepo DMTCounter) DashboardService {
	return &dashboardService{db: db, dmtRepo: dmtRepo}
}

// GetStats 执行全部聚合查询并汇总结果
func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{EntityCounts: make(map[string]int64)}

	var err error
	if stats.TotalDMT, err = s.dmtRepo.CountByStatus(""); err != nil {
		return nil, err
	}
	if stats.OpenDMT, err = s.dmtRepo.CountByStatus(models.DMTStatusOpen); err != nil {
		return nil, err
	}
	if stats.ClosedDMT, err = s.dmtRepo.CountByStatus(models.DMTStatusClosed); err != nil {
		return nil, err
	}

	// 空表上 AVG/SUM 返回 NULL，借助 COALESCE 归零
	row := s.db.Model(&models.DMTRecord{}).
		Select("COALESCE(AVG(rework_hours), 0) AS avg_rework, COALESCE(SUM(material_scrap_cost + others_cost), 0) AS total_cost").
		Where("is_active = ?", true).
		Row()
	if err := row.Scan(&stats.AvgReworkHours, &stats.CostOfNonConformance); err != nil {
		return nil, err
	}

	err = s.db.Model(&models.DMTRecord{}).
		Select("failure_code AS name, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("failure_code").
		Order("count desc").
		Limit(10).
		Scan(&stats.DMTByFailureCode).Error
	if err != nil {
		return nil, err
	}

	for _, et := range models.AllEntityTypes {
		var count int64
		if err := s.db.Table(et.TableName()).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.EntityCounts[string(et)] = count
	}

	return stats, nil
}
