package services

import (
	"testing"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
)

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	database := newTestDB(t)
	service := NewDashboardService(database, repositories.NewGormDMTRepository(database))

	stats, err := service.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalDMT != 0 || stats.OpenDMT != 0 || stats.ClosedDMT != 0 {
		t.Errorf("expected zero counts, got %+v", stats)
	}
	// 空表上的聚合归零而不是 NULL 扫描失败
	if stats.AvgReworkHours != 0 || stats.CostOfNonConformance != 0 {
		t.Errorf("expected zero aggregates, got %+v", stats)
	}
	if len(stats.EntityCounts) != len(models.AllEntityTypes) {
		t.Errorf("expected counts for all entity types, got %d", len(stats.EntityCounts))
	}
}

func TestDashboardStatsAggregates(t *testing.T) {
	database := newTestDB(t)
	dmtRepo := repositories.NewGormDMTRepository(database)
	dmtService := NewDMTService(dmtRepo)
	entityRepo := repositories.NewGormEntityRepository(database)
	service := NewDashboardService(database, dmtRepo)

	// 两条活跃记录（一条关闭），一条软删除的不计入
	first, err := dmtService.CreateDMTRecord(validCreatePayload(), "")
	if err != nil {
		t.Fatalf("CreateDMTRecord failed: %v", err)
	}
	if err := dmtService.CloseDMTRecord(first.ID, ""); err != nil {
		t.Fatalf("CloseDMTRecord failed: %v", err)
	}
	if _, err := dmtService.CreateDMTRecord(validCreatePayload(), ""); err != nil {
		t.Fatalf("CreateDMTRecord failed: %v", err)
	}
	ghost, err := dmtService.CreateDMTRecord(validCreatePayload(), "")
	if err != nil {
		t.Fatalf("CreateDMTRecord failed: %v", err)
	}
	if err := dmtService.DeleteDMTRecord(ghost.ID, ""); err != nil {
		t.Fatalf("DeleteDMTRecord failed: %v", err)
	}

	if _, err := entityRepo.Create(models.EntityCustomers, &models.ReferenceItem{Name: "客户甲"}, ""); err != nil {
		t.Fatalf("Create customer failed: %v", err)
	}

	stats, err := service.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalDMT != 2 || stats.OpenDMT != 1 || stats.ClosedDMT != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	// validCreatePayload: rework 2.5, scrap 100, others 0
	if stats.AvgReworkHours != 2.5 {
		t.Errorf("expected avg rework 2.5, got %v", stats.AvgReworkHours)
	}
	if stats.CostOfNonConformance != 200 {
		t.Errorf("expected cost 200, got %v", stats.CostOfNonConformance)
	}
	if len(stats.DMTByFailureCode) != 1 || stats.DMTByFailureCode[0].Count != 2 {
		t.Errorf("unexpected failure code breakdown: %+v", stats.DMTByFailureCode)
	}
	if stats.EntityCounts["customers"] != 1 {
		t.Errorf("expected 1 customer, got %d", stats.EntityCounts["customers"])
	}
}
