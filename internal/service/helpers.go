package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidDate 日期格式错误
	ErrInvalidDate = fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", apperrors.ErrValidation)
	// ErrInvalidEntryID 批量条目的 ID 不是合法 UUID
	ErrInvalidEntryID = fmt.Errorf("%w: 条目 ID 格式无效", apperrors.ErrValidation)
)

// checkEntryID 批量条目逐条校验 ID，避免非法 UUID 让整个事务失败
func checkEntryID(id string) error {
	if uuid.Validate(id) != nil {
		return ErrInvalidEntryID
	}
	return nil
}

// parseDate 解析 "2006-01-02"，结果为 UTC 零点
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// decStr 成绩类数值统一保留两位小数输出
func decStr(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func decPtrStr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := decStr(*d)
	return &s
}

// parseRequiredScore 必填成绩：空串视为格式错误
func parseRequiredScore(raw string) (decimal.Decimal, error) {
	d, err := rules.ParseScore(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, rules.ErrScoreMalformed
	}
	return *d, nil
}

// parseOptionalScore 可选成绩：nil 或空串表示未设置
func parseOptionalScore(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	return rules.ParseScore(*raw)
}

// parseRequiredPercent 必填百分比（0-100）
func parseRequiredPercent(raw string) (decimal.Decimal, error) {
	d, err := rules.ParsePercent(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.Zero, rules.ErrScoreMalformed
	}
	return *d, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func strPtr(s string) *string {
	return &s
}

// isDomainError 业务错误不需要按系统故障记录 Error 日志
func isDomainError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrPolicyViolation,
		apperrors.ErrNotFound,
		apperrors.ErrConflict,
		apperrors.ErrOptimisticLock,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
