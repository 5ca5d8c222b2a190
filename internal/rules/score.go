package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	scoreMin = decimal.Zero
	scoreMax = decimal.NewFromInt(20)
	hundred  = decimal.NewFromInt(100)
)

// ParseScore 解析录入的原始成绩字符串
// 空白返回 (nil, nil) 表示清空；支持小数逗号；结果保留两位小数
func ParseScore(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil, ErrScoreMalformed
	}
	if err := CheckScore(d); err != nil {
		return nil, err
	}
	d = d.Round(2)
	return &d, nil
}

// CheckScore 校验成绩落在 0..20
func CheckScore(d decimal.Decimal) error {
	if d.LessThan(scoreMin) || d.GreaterThan(scoreMax) {
		return ErrScoreOutOfRange
	}
	return nil
}

// ParsePercent 解析出勤率等百分比，范围 0..100
func ParsePercent(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil, ErrScoreMalformed
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return nil, ErrScoreOutOfRange
	}
	d = d.Round(2)
	return &d, nil
}

// mean 算术平均，不做舍入；与阈值比较必须用未舍入的值
func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).
		DivRound(decimal.NewFromInt(int64(len(values))), 16)
}

// display 对外展示的两位小数，截断而非四舍五入，展示值不会越过判定未越过的阈值
func display(d decimal.Decimal) *decimal.Decimal {
	r := d.Truncate(2)
	return &r
}
