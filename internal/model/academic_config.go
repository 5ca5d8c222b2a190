package model

import "github.com/shopspring/decimal"

// TieBreakCriterion 录取同分时的排序规则
type TieBreakCriterion string

const (
	TieBreakOlderFirst      TieBreakCriterion = "older_first"
	TieBreakYoungerFirst    TieBreakCriterion = "younger_first"
	TieBreakEnrollmentOrder TieBreakCriterion = "enrollment_order"
	TieBreakFemaleFirst     TieBreakCriterion = "female_first"
	TieBreakMaleFirst       TieBreakCriterion = "male_first"
	TieBreakFemaleYoungest  TieBreakCriterion = "female_youngest"
	TieBreakFemaleOldest    TieBreakCriterion = "female_oldest"
)

// GlobalAcademicConfig 全局学术配置（单行强类型）， 对应 global_academic_config
// 课程方案未设置的策略字段回落到这里，这里也不存在时回落到内置默认值
type GlobalAcademicConfig struct {
	Singleton                  bool              `gorm:"primaryKey;default:true"                     json:"-"`
	ContinuousWeight           decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:40"       json:"continuous_weight"`
	ExamWeight                 decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:60"       json:"exam_weight"`
	MinAttendance              decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:75"       json:"min_attendance"`
	PassingGrade               decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:10"       json:"passing_grade"`
	DirectPassAverage          decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:14"       json:"direct_pass_average"`
	MinExamAverage             decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:10"       json:"min_exam_average"`
	DirectFailAverage          decimal.Decimal   `gorm:"type:numeric(5,2);not null;default:7"        json:"direct_fail_average"`
	MaxBehindSubjects          int               `gorm:"not null;default:2"                          json:"max_behind_subjects"`
	TieBreak                   TieBreakCriterion `gorm:"type:varchar(20);not null;default:'older_first'" json:"tie_break"`
	LawOfSeven                 bool              `gorm:"not null;default:true"                       json:"law_of_seven"`
	TwoPositivesForExemption   bool              `gorm:"not null;default:true"                       json:"two_positives_for_exemption"`
	ExemptionOnlyComplementary bool              `gorm:"not null;default:false"                      json:"exemption_only_complementary"`
	AllowSpecialExam           bool              `gorm:"not null;default:true"                       json:"allow_special_exam"`
	ProjectSpecialRules        bool              `gorm:"not null;default:true"                       json:"project_special_rules"` // 项目科目：考试成绩即项目成绩
	UseCredits                 bool              `gorm:"not null;default:false"                      json:"use_credits"`
	BarriersEnabled            bool              `gorm:"not null;default:true"                       json:"barriers_enabled"`
	BarrierYears               IntArray          `gorm:"type:int[];not null;default:'{3,5}'"         json:"barrier_years"`
	VersionedModel
}

// TableName 指定表名
func (GlobalAcademicConfig) TableName() string { return "global_academic_config" }
