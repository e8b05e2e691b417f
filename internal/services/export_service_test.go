package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/qms_management/internal/models"
)

func TestValidateExportFormat(t *testing.T) {
	for _, format := range []string{"csv", "json"} {
		if err := ValidateExportFormat(format); err != nil {
			t.Errorf("format %q should be valid, got %v", format, err)
		}
	}
	for _, format := range []string{"", "xml", "CSV", "xlsx"} {
		if err := ValidateExportFormat(format); err == nil {
			t.Errorf("format %q should be rejected", format)
		}
	}
}

func TestReferenceItemsToCSVZeroRows(t *testing.T) {
	service := NewExportService()

	out, err := service.ReferenceItemsToCSV(nil)
	if err != nil {
		t.Fatalf("ReferenceItemsToCSV failed: %v", err)
	}

	// 零行导出只含表头
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
	if lines[0] != "id,name,employee_number,created_at,updated_at" {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestReferenceItemsToCSVEscapesSpecialCharacters(t *testing.T) {
	service := NewExportService()

	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	items := []models.ReferenceItem{
		{ID: "abc12345", Name: `含"引号", 逗号和` + "\n换行", CreatedAt: now, UpdatedAt: now},
	}

	out, err := service.ReferenceItemsToCSV(items)
	if err != nil {
		t.Fatalf("ReferenceItemsToCSV failed: %v", err)
	}

	// 序列化结果必须能被标准 CSV 读取器完整还原
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("round-trip read failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	if records[1][1] != items[0].Name {
		t.Errorf("name not preserved: %q", records[1][1])
	}
	if records[1][3] != "2026-08-15 10:30:00" {
		t.Errorf("unexpected timestamp format: %q", records[1][3])
	}
}

func TestDMTRecordsToCSVHeaderIsStable(t *testing.T) {
	service := NewExportService()

	out, err := service.DMTRecordsToCSV(nil)
	if err != nil {
		t.Fatalf("DMTRecordsToCSV failed: %v", err)
	}
	header := strings.Split(strings.TrimRight(out, "\n"), "\n")[0]

	if !strings.HasPrefix(header, "id,work_center,part_num,") {
		t.Errorf("unexpected header prefix: %s", header)
	}
	// is_active 是内部标志，绝不导出
	if strings.Contains(header, "is_active") {
		t.Error("header must not contain is_active")
	}
	if got := len(strings.Split(header, ",")); got != 33 {
		t.Errorf("expected 33 columns, got %d", got)
	}
}

func TestDMTRecordsToCSVRow(t *testing.T) {
	service := NewExportService()

	part := "PN-42"
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []models.DMTRecord{{
		ID:                 "AB12CD34",
		PartNum:            &part,
		Disposition:        "Rework",
		DispositionDate:    "2026-01-02",
		Engineer:           "李工",
		FailureCode:        "FC-01",
		ReworkHours:        1.25,
		ResponsibleDept:    "生产部",
		MaterialScrapCost:  0,
		OthersCost:         10,
		EngineeringRemarks: "备注",
		RepairProcess:      "流程",
		Status:             models.DMTStatusOpen,
		CreatedAt:          now,
		UpdatedAt:          now,
	}}

	out, err := service.DMTRecordsToCSV(records)
	if err != nil {
		t.Fatalf("DMTRecordsToCSV failed: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("round-trip read failed: %v", err)
	}
	row := rows[1]

	if row[0] != "AB12CD34" || row[2] != "PN-42" {
		t.Errorf("unexpected id/part: %q %q", row[0], row[2])
	}
	// NULL 的可选字段导出为空串
	if row[1] != "" {
		t.Errorf("expected empty work_center, got %q", row[1])
	}
	// 浮点用最短精确表示
	if row[23] != "1.25" || row[25] != "0" {
		t.Errorf("unexpected float formatting: %q %q", row[23], row[25])
	}
}

func TestExportEnvelopes(t *testing.T) {
	service := NewExportService()

	env := service.ReferenceItemsToEnvelope(models.EntityCustomers, nil)
	if env.Entity != "customers" || env.Count != 0 {
		t.Errorf("unexpected envelope: %+v", env)
	}

	dmtEnv := service.DMTRecordsToEnvelope([]models.DMTRecord{{ID: "X"}})
	if dmtEnv.Entity != "dmt_records" || dmtEnv.Count != 1 {
		t.Errorf("unexpected DMT envelope: %+v", dmtEnv)
	}
}

func TestExportFilename(t *testing.T) {
	service := NewExportService()

	name := service.ExportFilename("customers", "csv")
	if !strings.HasPrefix(name, "customers_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected filename: %s", name)
	}
}
