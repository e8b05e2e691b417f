package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/qms_management/internal/models"
)

// newDMTRecord 构造一条只填了必填字段的记录
func newDMTRecord() *models.DMTRecord {
	return &models.DMTRecord{
		Disposition:        "Rework",
		DispositionDate:    "2026-08-01",
		Engineer:           "李工",
		FailureCode:        "FC-01",
		ReworkHours:        1.5,
		ResponsibleDept:    "生产部",
		MaterialScrapCost:  10,
		OthersCost:         0,
		EngineeringRemarks: "返工处理",
		RepairProcess:      "重新焊接",
	}
}

func TestDMTCreateGeneratesUppercaseID(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	record := newDMTRecord()
	if err := repo.Create(record, "user-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(record.ID) != 8 || record.ID != strings.ToUpper(record.ID) {
		t.Errorf("expected 8-char uppercase id, got %q", record.ID)
	}
	if record.Status != models.DMTStatusOpen {
		t.Errorf("expected new record to be open, got %q", record.Status)
	}
	if !record.IsActive {
		t.Error("expected new record to be active")
	}
	if record.CreatedBy == nil || *record.CreatedBy != "user-1" {
		t.Errorf("expected createdBy user-1, got %v", record.CreatedBy)
	}
}

func TestDMTSoftDeleteHidesRecord(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	record := newDMTRecord()
	if err := repo.Create(record, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.SoftDelete(record.ID, ""); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	// 软删除后对读取不可见
	if _, err := repo.GetByID(record.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected soft-deleted record to be invisible, got %v", err)
	}
	_, total, err := repo.List("", "", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected empty list after soft delete, got %d", total)
	}

	// 对状态变更同样不可见
	if err := repo.SetStatus(record.ID, models.DMTStatusClosed, models.AuditActionClose, ""); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected close of soft-deleted record to fail, got %v", err)
	}
	if err := repo.SoftDelete(record.ID, ""); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected second soft delete to fail, got %v", err)
	}
}

func TestDMTCloseReopenRoundTrip(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)
	auditRepo := NewGormAuditRepository(database)

	record := newDMTRecord()
	if err := repo.Create(record, "user-2"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetStatus(record.ID, models.DMTStatusClosed, models.AuditActionClose, "user-2"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	got, err := repo.GetByID(record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.DMTStatusClosed {
		t.Errorf("expected closed status, got %q", got.Status)
	}

	if err := repo.SetStatus(record.ID, models.DMTStatusOpen, models.AuditActionReopen, "user-2"); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err = repo.GetByID(record.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.DMTStatusOpen {
		t.Errorf("expected open status after reopen, got %q", got.Status)
	}

	// 审计轨迹: CREATE, CLOSE, REOPEN
	entries, err := auditRepo.ListByEntity("dmt_records", record.ID)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}
	actions := map[string]bool{}
	for _, e := range entries {
		actions[e.Action] = true
	}
	for _, want := range []string{models.AuditActionCreate, models.AuditActionClose, models.AuditActionReopen} {
		if !actions[want] {
			t.Errorf("missing audit action %s", want)
		}
	}
}

func TestDMTListFilters(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	desc1 := "轴承磨损"
	part1 := "PN-100"
	r1 := newDMTRecord()
	r1.Description = &desc1
	r1.PartNum = &part1
	if err := repo.Create(r1, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	desc2 := "外壳划伤"
	part2 := "PN-200"
	r2 := newDMTRecord()
	r2.Description = &desc2
	r2.PartNum = &part2
	if err := repo.Create(r2, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// search 同时匹配描述和料号
	_, total, err := repo.List("轴承", "", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 match by description, got %d", total)
	}

	_, total, err = repo.List("PN-", "", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 matches by part substring, got %d", total)
	}

	// search 与 part 同时给出时取交集
	_, total, err = repo.List("PN-", "PN-200", 1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 match with combined filters, got %d", total)
	}
}

func TestDMTUpdatePartialFields(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	record := newDMTRecord()
	if err := repo.Create(record, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.Update(record.ID, map[string]interface{}{"rework_hours": 4.0}, "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ReworkHours != 4.0 {
		t.Errorf("expected rework hours 4.0, got %v", updated.ReworkHours)
	}
	// 未更新的字段保持原值
	if updated.Disposition != "Rework" {
		t.Errorf("expected untouched disposition, got %q", updated.Disposition)
	}
}

func TestDMTUpdateAuditSnapshotOmitsTimestamp(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	record := newDMTRecord()
	if err := repo.Create(record, "user-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Update(record.ID, map[string]interface{}{"rework_hours": 4.0}, "user-1"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var entry models.AuditEntry
	err := database.
		Where("entity_id = ? AND action = ?", record.ID, models.AuditActionUpdate).
		First(&entry).Error
	if err != nil {
		t.Fatalf("expected UPDATE audit entry: %v", err)
	}
	if entry.Changes == nil {
		t.Fatal("expected changes snapshot on UPDATE audit entry")
	}
	// 快照只含调用方提交的字段
	if !strings.Contains(*entry.Changes, "rework_hours") {
		t.Errorf("expected snapshot to contain submitted field, got %s", *entry.Changes)
	}
	if strings.Contains(*entry.Changes, "updated_at") {
		t.Errorf("expected snapshot without timestamp column, got %s", *entry.Changes)
	}
}

func TestDMTCountByStatus(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormDMTRepository(database)

	open := newDMTRecord()
	closed := newDMTRecord()
	if err := repo.Create(open, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(closed, ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.SetStatus(closed.ID, models.DMTStatusClosed, models.AuditActionClose, ""); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	total, err := repo.CountByStatus("")
	if err != nil || total != 2 {
		t.Errorf("expected total 2, got %d (%v)", total, err)
	}
	openCount, err := repo.CountByStatus(models.DMTStatusOpen)
	if err != nil || openCount != 1 {
		t.Errorf("expected 1 open, got %d (%v)", openCount, err)
	}
}
