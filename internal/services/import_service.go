package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
)

// foldCaser 用于名称去重时的 Unicode 大小写折叠比较
var foldCaser = cases.Fold()

// ImportRow 是 CSV 中解析出的一条待导入数据
type ImportRow struct {
	Name           string
	EmployeeNumber string
}

// ImportSummary 汇总一次批量导入的结果
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportService 从 CSV 文件批量导入基础数据。
// 表头必须包含 name 列；employees 类型还要求 employee_number 列。
type ImportService interface {
	// ParseCSV 解析并校验 CSV 内容，返回有效行和逐行错误（1 为表头行）
	ParseCSV(reader io.Reader, et models.EntityType) ([]ImportRow, []string)
	// ImportRows 将解析出的行写入存储，重名（大小写折叠后相同）跳过
	ImportRows(et models.EntityType, rows []ImportRow, userID string) ImportSummary
}

// importService 是 ImportService 的实现
type importService struct {
	repo     repositories.EntityRepository
	pageSize int
}

// NewImportService 创建一个新的 importService 实例
func NewImportService(repo repositories.EntityRepository, pageSize int) ImportService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &importService{repo: repo, pageSize: pageSize}
}

// requiredHeaders 返回实体类型要求的表头列
func requiredHeaders(et models.EntityType) []string {
	if et.SupportsEmployeeNumber() {
		return []string{"name", "employee_number"}
	}
	return []string{"name"}
}

// ParseCSV 解析 CSV 文件内容
func (s *importService) ParseCSV(reader io.Reader, et models.EntityType) ([]ImportRow, []string) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1 // 允许行内列数不一致，缺失列按空值处理

	header, err := r.Read()
	if err != nil {
		return nil, []string{"CSV 文件为空或没有表头"}
	}

	// 建立列名到下标的映射，列名不区分大小写
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range requiredHeaders(et) {
		if _, ok := colIndex[req]; !ok {
			return nil, []string{fmt.Sprintf("缺少必需的列: %s", req)}
		}
	}

	field := func(record []string, name string) string {
		idx, ok := colIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []ImportRow
	var parseErrors []string
	lineNo := 1 // 表头是第 1 行
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("第 %d 行: CSV 解析失败: %v", lineNo, err))
			continue
		}

		// 跳过整行为空的记录
		empty := true
		for _, v := range record {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		name := field(record, "name")
		if name == "" {
			parseErrors = append(parseErrors, fmt.Sprintf("第 %d 行: 名称不能为空", lineNo))
			continue
		}

		row := ImportRow{Name: name}
		if et.SupportsEmployeeNumber() {
			number := field(record, "employee_number")
			if number == "" {
				parseErrors = append(parseErrors, fmt.Sprintf("第 %d 行: 员工工号不能为空", lineNo))
				continue
			}
			row.EmployeeNumber = number
		}
		rows = append(rows, row)
	}

	return rows, parseErrors
}

// ImportRows 将有效行写入存储。与已有条目重名的行跳过而不是报错。
func (s *importService) ImportRows(et models.EntityType, rows []ImportRow, userID string) ImportSummary {
	summary := ImportSummary{}

	for _, row := range rows {
		exists, err := s.nameExists(et, row.Name)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("导入 %q 失败: 查询已有条目出错", row.Name))
			continue
		}
		if exists {
			summary.Skipped++
			continue
		}

		item := &models.ReferenceItem{Name: row.Name}
		if et.SupportsEmployeeNumber() && row.EmployeeNumber != "" {
			number := row.EmployeeNumber
			item.EmployeeNumber = &number
		}
		if _, err := s.repo.Create(et, item, userID); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("导入 %q 失败", row.Name))
			continue
		}
		summary.Imported++
	}

	return summary
}

// nameExists 检查同名条目是否已存在（Unicode 大小写折叠后比较）
func (s *importService) nameExists(et models.EntityType, name string) (bool, error) {
	folded := foldCaser.String(name)
	items, _, err := s.repo.List(et, 1, s.pageSize, name, 0)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if foldCaser.String(item.Name) == folded {
			return true, nil
		}
	}
	return false, nil
}
