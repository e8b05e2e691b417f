package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/qms_management/internal/models"
)

func TestEntityCreateWritesAuditInSameTransaction(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)
	auditRepo := NewGormAuditRepository(database)

	item, err := repo.Create(models.EntityWorkCenters, &models.ReferenceItem{Name: "CNC-01"}, "user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(item.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", item.ID)
	}

	entries, err := auditRepo.ListByEntity(string(models.EntityWorkCenters), item.ID)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Action != models.AuditActionCreate {
		t.Errorf("expected CREATE action, got %q", entry.Action)
	}
	if entry.UserID == nil || *entry.UserID != "user-1" {
		t.Errorf("expected audit user user-1, got %v", entry.UserID)
	}
	if entry.Changes == nil || !strings.Contains(*entry.Changes, "CNC-01") {
		t.Errorf("expected audit changes to record the name, got %v", entry.Changes)
	}
}

func TestEntityListSearchAndPagination(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)

	for _, name := range []string{"Milling A", "Milling B", "Welding"} {
		if _, err := repo.Create(models.EntityWorkCenters, &models.ReferenceItem{Name: name}, ""); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	items, total, err := repo.List(models.EntityWorkCenters, 1, 10, "milling", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 matches for 'milling', got total=%d len=%d", total, len(items))
	}

	// 分页：每页 2 条时第二页应只剩 1 条，总数仍为 3
	items, total, err = repo.List(models.EntityWorkCenters, 2, 2, "", 0)
	if err != nil {
		t.Fatalf("List page 2 failed: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Errorf("expected page 2 with 1 item and total 3, got total=%d len=%d", total, len(items))
	}
}

func TestEntityTablesAreIsolatedByType(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)

	if _, err := repo.Create(models.EntityCustomers, &models.ReferenceItem{Name: "ACME"}, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, total, err := repo.List(models.EntityDispositions, 1, 10, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected dispositions table to be empty, got %d rows", total)
	}
}

func TestEntityUpdateNotFound(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)

	if _, err := repo.Update(models.EntityAreas, "missing1", "新名称", nil, ""); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEntityUpdateEmployeeNumber(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)

	number := "E001"
	item, err := repo.Create(models.EntityEmployees, &models.ReferenceItem{Name: "张三", EmployeeNumber: &number}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newNumber := "E002"
	updated, err := repo.Update(models.EntityEmployees, item.ID, "张三", &newNumber, "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.EmployeeNumber == nil || *updated.EmployeeNumber != "E002" {
		t.Errorf("expected employee number E002, got %v", updated.EmployeeNumber)
	}
}

func TestEntityDeleteIsHardDelete(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormEntityRepository(database)
	auditRepo := NewGormAuditRepository(database)

	item, err := repo.Create(models.EntityLevels, &models.ReferenceItem{Name: "L1"}, "user-9")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := repo.Delete(models.EntityLevels, item.ID, "user-9")
	if err != nil || !deleted {
		t.Fatalf("Delete failed: deleted=%v err=%v", deleted, err)
	}

	if _, err := repo.GetByID(models.EntityLevels, item.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected row to be gone after delete, got %v", err)
	}

	// 重复删除不报错，但返回未删除
	deleted, err = repo.Delete(models.EntityLevels, item.ID, "user-9")
	if err != nil || deleted {
		t.Errorf("expected second delete to be a no-op, deleted=%v err=%v", deleted, err)
	}

	// 审计记录保留了 CREATE 和 DELETE 两条
	entries, err := auditRepo.ListByEntity(string(models.EntityLevels), item.ID)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 audit entries after delete, got %d", len(entries))
	}
}
