package dto

// ── 全局学术配置 DTO ──

// UpdateAcademicConfigRequest 更新全局学术配置
type UpdateAcademicConfigRequest struct {
	ContinuousWeight           string `json:"continuous_weight"            binding:"required"`
	ExamWeight                 string `json:"exam_weight"                  binding:"required"`
	MinAttendance              string `json:"min_attendance"               binding:"required"`
	PassingGrade               string `json:"passing_grade"                binding:"required,grade"`
	DirectPassAverage          string `json:"direct_pass_average"          binding:"required,grade"`
	MinExamAverage             string `json:"min_exam_average"             binding:"required,grade"`
	DirectFailAverage          string `json:"direct_fail_average"          binding:"required,grade"`
	MaxBehindSubjects          int    `json:"max_behind_subjects"          binding:"min=0,max=20"`
	TieBreak                   string `json:"tie_break"                    binding:"required,tiebreak"`
	LawOfSeven                 bool   `json:"law_of_seven"`
	TwoPositivesForExemption   bool   `json:"two_positives_for_exemption"`
	ExemptionOnlyComplementary bool   `json:"exemption_only_complementary"`
	AllowSpecialExam           bool   `json:"allow_special_exam"`
	ProjectSpecialRules        bool   `json:"project_special_rules"`
	UseCredits                 bool   `json:"use_credits"`
	BarriersEnabled            bool   `json:"barriers_enabled"`
	BarrierYears               []int  `json:"barrier_years"                binding:"omitempty,dive,min=1,max=10"`
	Version                    int    `json:"version"`
}

// AcademicConfigResponse 全局学术配置；is_default 表示尚未保存过配置
type AcademicConfigResponse struct {
	ContinuousWeight           string `json:"continuous_weight"`
	ExamWeight                 string `json:"exam_weight"`
	MinAttendance              string `json:"min_attendance"`
	PassingGrade               string `json:"passing_grade"`
	DirectPassAverage          string `json:"direct_pass_average"`
	MinExamAverage             string `json:"min_exam_average"`
	DirectFailAverage          string `json:"direct_fail_average"`
	MaxBehindSubjects          int    `json:"max_behind_subjects"`
	TieBreak                   string `json:"tie_break"`
	LawOfSeven                 bool   `json:"law_of_seven"`
	TwoPositivesForExemption   bool   `json:"two_positives_for_exemption"`
	ExemptionOnlyComplementary bool   `json:"exemption_only_complementary"`
	AllowSpecialExam           bool   `json:"allow_special_exam"`
	ProjectSpecialRules        bool   `json:"project_special_rules"`
	UseCredits                 bool   `json:"use_credits"`
	BarriersEnabled            bool   `json:"barriers_enabled"`
	BarrierYears               []int  `json:"barrier_years"`
	IsDefault                  bool   `json:"is_default"`
	Version                    int    `json:"version"`
}
