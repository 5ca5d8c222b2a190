// Package validation 注册 gin 绑定使用的自定义校验标签。
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
)

// 自定义校验标签
const (
	tagGrade    = "grade"
	tagYearCode = "yearcode"
	tagTieBreak = "tiebreak"
	tagNotBlank = "notblank"
	tagRole     = "role"
)

// Register 在 validator 上注册全部自定义标签
//
//	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
//		validation.Register(v)
//	}
func Register(v *validator.Validate) error {
	for tag, fn := range map[string]validator.Func{
		tagGrade:    gradeValidation,
		tagYearCode: yearCodeValidation,
		tagTieBreak: tieBreakValidation,
		tagNotBlank: notBlankValidation,
		tagRole:     roleValidation,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// gradeValidation 0 到 20 之间的成绩，允许小数逗号；空串交给 required/omitempty 处理
func gradeValidation(fl validator.FieldLevel) bool {
	s, ok := stringField(fl)
	if !ok {
		return false
	}
	d, err := rules.ParseScore(s)
	return err == nil && d != nil
}

func yearCodeValidation(fl validator.FieldLevel) bool {
	s, ok := stringField(fl)
	return ok && rules.ValidateYearCode(s) == nil
}

func tieBreakValidation(fl validator.FieldLevel) bool {
	s, ok := stringField(fl)
	return ok && rules.KnownTieBreak(model.TieBreakCriterion(s))
}

func notBlankValidation(fl validator.FieldLevel) bool {
	s, ok := stringField(fl)
	return ok && strings.TrimSpace(s) != ""
}

func roleValidation(fl validator.FieldLevel) bool {
	s, ok := stringField(fl)
	if !ok {
		return false
	}
	_, valid := model.ParseRole(s)
	return valid
}

// stringField 取出 string 或 *string 字段的值
func stringField(fl validator.FieldLevel) (string, bool) {
	switch v := fl.Field().Interface().(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}
