package dto

// ── 学历层次 DTO ──

// AcademicLevelRequest 创建/更新学历层次请求
type AcademicLevelRequest struct {
	Code                  string `json:"code"                   binding:"required,notblank,max=20"`
	Name                  string `json:"name"                   binding:"required,notblank,max=100"`
	DurationYears         int    `json:"duration_years"         binding:"required,min=1,max=10"`
	Cadence               string `json:"cadence"                binding:"omitempty,oneof=semester trimester"`
	PeriodsPerYear        int    `json:"periods_per_year"       binding:"omitempty,min=1,max=4"`
	MinPassingGrade       string `json:"min_passing_grade"      binding:"omitempty,grade"`
	ScaleMin              string `json:"scale_min"              binding:"omitempty,grade"`
	ScaleMax              string `json:"scale_max"              binding:"omitempty,grade"`
	AdmissionRequirements string `json:"admission_requirements" binding:"omitempty,max=2000"`
	Active                *bool  `json:"active"`
}

// AcademicLevelResponse 学历层次响应
type AcademicLevelResponse struct {
	ID                    string `json:"id"`
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	DurationYears         int    `json:"duration_years"`
	Cadence               string `json:"cadence"`
	PeriodsPerYear        int    `json:"periods_per_year"`
	MinPassingGrade       string `json:"min_passing_grade"`
	ScaleMin              string `json:"scale_min"`
	ScaleMax              string `json:"scale_max"`
	AdmissionRequirements string `json:"admission_requirements"`
	Active                bool   `json:"active"`
}

// ── 课程 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code                  string `json:"code"                   binding:"required,notblank,max=20"`
	Name                  string `json:"name"                   binding:"required,notblank,max=200"`
	LevelID               string `json:"level_id"               binding:"required,uuid"`
	Capacity              int    `json:"capacity"               binding:"min=0"`
	MinimumScore          string `json:"minimum_score"          binding:"omitempty,grade"`
	DurationMonths        int    `json:"duration_months"        binding:"omitempty,min=0"`
	RequiresPrerequisites bool   `json:"requires_prerequisites"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name                  *string `json:"name"                   binding:"omitempty,notblank,max=200"`
	LevelID               *string `json:"level_id"               binding:"omitempty,uuid"`
	Capacity              *int    `json:"capacity"               binding:"omitempty,min=0"`
	MinimumScore          *string `json:"minimum_score"          binding:"omitempty,grade"`
	DurationMonths        *int    `json:"duration_months"        binding:"omitempty,min=0"`
	RequiresPrerequisites *bool   `json:"requires_prerequisites"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID                    string                 `json:"id"`
	Code                  string                 `json:"code"`
	Name                  string                 `json:"name"`
	Level                 *AcademicLevelResponse `json:"level,omitempty"`
	LevelID               string                 `json:"level_id"`
	Capacity              int                    `json:"capacity"`
	MinimumScore          string                 `json:"minimum_score"`
	DurationMonths        int                    `json:"duration_months"`
	RequiresPrerequisites bool                   `json:"requires_prerequisites"`
	Active                bool                   `json:"active"`
	AvailableSeats        int64                  `json:"available_seats"`
}

// PrerequisiteItem 一条先修要求
type PrerequisiteItem struct {
	SubjectID    string `json:"subject_id"    binding:"required,uuid"`
	MinimumGrade string `json:"minimum_grade" binding:"required,grade"`
	Mandatory    bool   `json:"mandatory"`
}

// SetPrerequisitesRequest 整体替换课程先修要求；数组顺序即排序
type SetPrerequisitesRequest struct {
	Items []PrerequisiteItem `json:"items" binding:"dive"`
}

// PrerequisiteResponse 先修要求响应
type PrerequisiteResponse struct {
	ID           string `json:"id"`
	SubjectID    string `json:"subject_id"`
	SubjectName  string `json:"subject_name"`
	MinimumGrade string `json:"minimum_grade"`
	Mandatory    bool   `json:"mandatory"`
	SortOrder    int    `json:"sort_order"`
}

// ── 课程方案 DTO ──

// CurriculumGradeRequest 创建课程方案请求
type CurriculumGradeRequest struct {
	Name                string `json:"name"                  binding:"required,notblank,max=100"`
	Revision            string `json:"revision"              binding:"omitempty,max=20"`
	Status              string `json:"status"                binding:"omitempty,oneof=draft active obsolete"`
	AutoRomanPrecedence bool   `json:"auto_roman_precedence"`
	GradePolicyRequest
}

// GradePolicyRequest 课程方案的策略覆盖项，留空表示沿用全局配置
type GradePolicyRequest struct {
	DirectPassAverage *string `json:"direct_pass_average" binding:"omitempty,grade"`
	MinExamAverage    *string `json:"min_exam_average"    binding:"omitempty,grade"`
	DirectFailAverage *string `json:"direct_fail_average" binding:"omitempty,grade"`
	MaxBehindSubjects *int    `json:"max_behind_subjects" binding:"omitempty,min=0"`
	LawOfSeven        *bool   `json:"law_of_seven"`
	AllowSpecialExam  *bool   `json:"allow_special_exam"`
	UseCredits        *bool   `json:"use_credits"`
}

// UpdateCurriculumGradeRequest 更新课程方案策略请求
type UpdateCurriculumGradeRequest struct {
	Name                *string `json:"name"                  binding:"omitempty,notblank,max=100"`
	AutoRomanPrecedence *bool   `json:"auto_roman_precedence"`
	GradePolicyRequest
}

// CurriculumGradeResponse 课程方案响应
type CurriculumGradeResponse struct {
	ID                  string  `json:"id"`
	CourseID            string  `json:"course_id"`
	Name                string  `json:"name"`
	Revision            string  `json:"revision"`
	Status              string  `json:"status"`
	DirectPassAverage   *string `json:"direct_pass_average"`
	MinExamAverage      *string `json:"min_exam_average"`
	DirectFailAverage   *string `json:"direct_fail_average"`
	MaxBehindSubjects   *int    `json:"max_behind_subjects"`
	LawOfSeven          *bool   `json:"law_of_seven"`
	AllowSpecialExam    *bool   `json:"allow_special_exam"`
	UseCredits          *bool   `json:"use_credits"`
	AutoRomanPrecedence bool    `json:"auto_roman_precedence"`
}

// ── 科目 DTO ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	GradeID              *string `json:"grade_id"                binding:"omitempty,uuid"`
	Code                 string  `json:"code"                    binding:"required,notblank,max=20"`
	Name                 string  `json:"name"                    binding:"required,notblank,max=200"`
	Area                 string  `json:"area"                    binding:"omitempty,oneof=core complementary general project"`
	Credits              int     `json:"credits"                 binding:"omitempty,min=0"`
	Hours                int     `json:"hours"                   binding:"omitempty,min=0"`
	CurricularYear       int     `json:"curricular_year"         binding:"required,min=1,max=10"`
	Period               int     `json:"period"                  binding:"omitempty,min=1,max=4"`
	IsProject            bool    `json:"is_project"`
	LawOfSevenApplicable bool    `json:"law_of_seven_applicable"`
	RequiresTwoPositives bool    `json:"requires_two_positives"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name                 *string `json:"name"                    binding:"omitempty,notblank,max=200"`
	Area                 *string `json:"area"                    binding:"omitempty,oneof=core complementary general project"`
	Credits              *int    `json:"credits"                 binding:"omitempty,min=0"`
	Hours                *int    `json:"hours"                   binding:"omitempty,min=0"`
	CurricularYear       *int    `json:"curricular_year"         binding:"omitempty,min=1,max=10"`
	Period               *int    `json:"period"                  binding:"omitempty,min=1,max=4"`
	IsProject            *bool   `json:"is_project"`
	LawOfSevenApplicable *bool   `json:"law_of_seven_applicable"`
	RequiresTwoPositives *bool   `json:"requires_two_positives"`
	Active               *bool   `json:"active"`
}

// AddSubjectPrerequisiteRequest 添加科目先修关系请求
type AddSubjectPrerequisiteRequest struct {
	RequiredSubjectID string `json:"required_subject_id" binding:"required,uuid"`
}

// SubjectResponse 科目响应
type SubjectResponse struct {
	ID                   string   `json:"id"`
	CourseID             string   `json:"course_id"`
	GradeID              *string  `json:"grade_id"`
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Area                 string   `json:"area"`
	Credits              int      `json:"credits"`
	Hours                int      `json:"hours"`
	CurricularYear       int      `json:"curricular_year"`
	Period               int      `json:"period"`
	IsProject            bool     `json:"is_project"`
	LawOfSevenApplicable bool     `json:"law_of_seven_applicable"`
	RequiresTwoPositives bool     `json:"requires_two_positives"`
	Active               bool     `json:"active"`
	Prerequisites        []string `json:"prerequisites,omitempty"`
}
