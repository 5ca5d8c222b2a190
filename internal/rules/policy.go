package rules

import (
	"github.com/shopspring/decimal"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// Policy 成绩判定与升级所用的生效策略
type Policy struct {
	ContinuousWeight           decimal.Decimal         `json:"continuous_weight"` // 百分比
	ExamWeight                 decimal.Decimal         `json:"exam_weight"`
	MinAttendance              decimal.Decimal         `json:"min_attendance"`
	PassingGrade               decimal.Decimal         `json:"passing_grade"`
	DirectPassAverage          decimal.Decimal         `json:"direct_pass_average"`
	MinExamAverage             decimal.Decimal         `json:"min_exam_average"`
	DirectFailAverage          decimal.Decimal         `json:"direct_fail_average"`
	MaxBehindSubjects          int                     `json:"max_behind_subjects"`
	LawOfSeven                 bool                    `json:"law_of_seven"`
	TwoPositivesForExemption   bool                    `json:"two_positives_for_exemption"`
	ExemptionOnlyComplementary bool                    `json:"exemption_only_complementary"`
	AllowSpecialExam           bool                    `json:"allow_special_exam"`
	ProjectSpecialRules        bool                    `json:"project_special_rules"`
	UseCredits                 bool                    `json:"use_credits"`
	BarriersEnabled            bool                    `json:"barriers_enabled"`
	BarrierYears               []int                   `json:"barrier_years"`
	TieBreak                   model.TieBreakCriterion `json:"tie_break"`

	// IsDefault 没有任何配置记录，完全使用内置默认值
	IsDefault bool `json:"is_default"`
}

// DefaultPolicy 内置默认策略
func DefaultPolicy() Policy {
	return Policy{
		ContinuousWeight:         decimal.NewFromInt(40),
		ExamWeight:               decimal.NewFromInt(60),
		MinAttendance:            decimal.NewFromInt(75),
		PassingGrade:             decimal.NewFromInt(10),
		DirectPassAverage:        decimal.NewFromInt(14),
		MinExamAverage:           decimal.NewFromInt(10),
		DirectFailAverage:        decimal.NewFromInt(7),
		MaxBehindSubjects:        2,
		LawOfSeven:               true,
		TwoPositivesForExemption: true,
		AllowSpecialExam:         true,
		ProjectSpecialRules:      true,
		BarriersEnabled:          true,
		BarrierYears:             []int{3, 5},
		TieBreak:                 model.TieBreakOlderFirst,
		IsDefault:                true,
	}
}

// DefaultGlobalConfig 以默认策略填充的全局配置记录（尚未保存）
func DefaultGlobalConfig() model.GlobalAcademicConfig {
	p := DefaultPolicy()
	return model.GlobalAcademicConfig{
		Singleton:                  true,
		ContinuousWeight:           p.ContinuousWeight,
		ExamWeight:                 p.ExamWeight,
		MinAttendance:              p.MinAttendance,
		PassingGrade:               p.PassingGrade,
		DirectPassAverage:          p.DirectPassAverage,
		MinExamAverage:             p.MinExamAverage,
		DirectFailAverage:          p.DirectFailAverage,
		MaxBehindSubjects:          p.MaxBehindSubjects,
		TieBreak:                   p.TieBreak,
		LawOfSeven:                 p.LawOfSeven,
		TwoPositivesForExemption:   p.TwoPositivesForExemption,
		ExemptionOnlyComplementary: p.ExemptionOnlyComplementary,
		AllowSpecialExam:           p.AllowSpecialExam,
		ProjectSpecialRules:        p.ProjectSpecialRules,
		UseCredits:                 p.UseCredits,
		BarriersEnabled:            p.BarriersEnabled,
		BarrierYears:               model.IntArray(p.BarrierYears),
	}
}

// ResolvePolicy 默认值 → 全局配置 → 课程方案，逐层覆盖
// 七分规则需要全局与课程方案同时开启
func ResolvePolicy(global *model.GlobalAcademicConfig, grade *model.CurriculumGrade) Policy {
	p := DefaultPolicy()

	if global != nil {
		p.IsDefault = false
		p.ContinuousWeight = global.ContinuousWeight
		p.ExamWeight = global.ExamWeight
		p.MinAttendance = global.MinAttendance
		p.PassingGrade = global.PassingGrade
		p.DirectPassAverage = global.DirectPassAverage
		p.MinExamAverage = global.MinExamAverage
		p.DirectFailAverage = global.DirectFailAverage
		p.MaxBehindSubjects = global.MaxBehindSubjects
		p.LawOfSeven = global.LawOfSeven
		p.TwoPositivesForExemption = global.TwoPositivesForExemption
		p.ExemptionOnlyComplementary = global.ExemptionOnlyComplementary
		p.AllowSpecialExam = global.AllowSpecialExam
		p.ProjectSpecialRules = global.ProjectSpecialRules
		p.UseCredits = global.UseCredits
		p.BarriersEnabled = global.BarriersEnabled
		p.BarrierYears = append([]int(nil), global.BarrierYears...)
		if global.TieBreak != "" {
			p.TieBreak = global.TieBreak
		}
	}

	if grade != nil {
		p.IsDefault = false
		if grade.DirectPassAverage != nil {
			p.DirectPassAverage = *grade.DirectPassAverage
		}
		if grade.MinExamAverage != nil {
			p.MinExamAverage = *grade.MinExamAverage
		}
		if grade.DirectFailAverage != nil {
			p.DirectFailAverage = *grade.DirectFailAverage
		}
		if grade.MaxBehindSubjects != nil {
			p.MaxBehindSubjects = *grade.MaxBehindSubjects
		}
		if grade.LawOfSeven != nil {
			p.LawOfSeven = p.LawOfSeven && *grade.LawOfSeven
		}
		if grade.AllowSpecialExam != nil {
			p.AllowSpecialExam = *grade.AllowSpecialExam
		}
		if grade.UseCredits != nil {
			p.UseCredits = *grade.UseCredits
		}
	}

	return p
}

// ValidateWeights 平时与考试占比之和必须为 100
func ValidateWeights(continuous, exam decimal.Decimal) error {
	if continuous.IsNegative() || exam.IsNegative() || !continuous.Add(exam).Equal(hundred) {
		return ErrWeightsInvalid
	}
	return nil
}
