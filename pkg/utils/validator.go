package utils

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName      = errors.New("名称不能为空")
	ErrNameTooLong    = errors.New("名称长度不能超过255个字符")
	ErrShortPassword  = errors.New("密码长度必须至少为6个字符")
	ErrEmptyUsername  = errors.New("用户名不能为空")
	ErrInvalidDays    = errors.New("days 参数必须为正整数")
	ErrInvalidPage    = errors.New("页码必须为正整数")
	ErrInvalidPerPage = errors.New("每页数量必须在 1 到 100 之间")
)

const (
	maxNameLength     = 255
	minPasswordLength = 6
	maxPageSize       = 100
)

// NormalizeName 去掉名称两端空白并校验结果非空。
// 所有基础数据的写入路径都必须经过此函数。
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	if len(trimmed) > maxNameLength {
		return "", ErrNameTooLong
	}
	return trimmed, nil
}

// ValidatePassword 校验密码满足最小长度要求
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrShortPassword
	}
	return nil
}

// ValidatePagination 校验分页参数。page 从 1 开始，limit 上限为 100。
func ValidatePagination(page, limit int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if limit < 1 || limit > maxPageSize {
		return ErrInvalidPerPage
	}
	return nil
}

// ValidateDays 校验按天数过滤的参数。0 表示未提供。
func ValidateDays(days int) error {
	if days < 0 {
		return ErrInvalidDays
	}
	return nil
}
