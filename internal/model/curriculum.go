package model

import "github.com/shopspring/decimal"

// ── 学历层次 ──

// PeriodCadence 学期节奏
type PeriodCadence string

const (
	CadenceSemester  PeriodCadence = "semester"
	CadenceTrimester PeriodCadence = "trimester"
)

// AcademicLevel 学历层次表，对应 academic_levels
type AcademicLevel struct {
	LevelID               string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"level_id"`
	Code                  string          `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name                  string          `gorm:"type:varchar(100);not null"                     json:"name"`
	DurationYears         int             `gorm:"not null"                                       json:"duration_years"`
	Cadence               PeriodCadence   `gorm:"type:varchar(10);not null;default:'semester'"   json:"cadence"`
	PeriodsPerYear        int             `gorm:"not null;default:2"                             json:"periods_per_year"`
	MinPassingGrade       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:10"          json:"min_passing_grade"`
	ScaleMin              decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"           json:"scale_min"`
	ScaleMax              decimal.Decimal `gorm:"type:numeric(5,2);not null;default:20"          json:"scale_max"`
	AdmissionRequirements string          `gorm:"type:text;not null;default:''"                  json:"admission_requirements"`
	Active                bool            `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (AcademicLevel) TableName() string { return "academic_levels" }

// ── 课程 ──

// Course 课程表，对应 courses
type Course struct {
	CourseID              string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code                  string          `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name                  string          `gorm:"type:varchar(200);not null"                     json:"name"`
	LevelID               string          `gorm:"type:uuid;not null;index"                       json:"level_id"`
	Capacity              int             `gorm:"not null;default:0"                             json:"capacity"`
	MinimumScore          decimal.Decimal `gorm:"type:numeric(5,2);not null;default:10"          json:"minimum_score"`
	DurationMonths        int             `gorm:"not null;default:0"                             json:"duration_months"`
	RequiresPrerequisites bool            `gorm:"not null;default:false"                         json:"requires_prerequisites"`
	Active                bool            `gorm:"not null;default:true"                          json:"active"`
	BaseModel

	// 关联
	Level *AcademicLevel `gorm:"foreignKey:LevelID;references:LevelID" json:"level,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// ── 课程方案（培养方案版本） ──

// GradeStatus 课程方案状态
type GradeStatus string

const (
	GradeDraft    GradeStatus = "draft"
	GradeActive   GradeStatus = "active"
	GradeObsolete GradeStatus = "obsolete"
)

// CurriculumGrade 课程方案表，对应 curriculum_grades
// 策略字段为空表示沿用全局学术配置
type CurriculumGrade struct {
	GradeID             string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	CourseID            string           `gorm:"type:uuid;not null;index"                       json:"course_id"`
	Name                string           `gorm:"type:varchar(100);not null"                     json:"name"`
	Revision            string           `gorm:"type:varchar(20);not null;default:'1.0'"        json:"revision"`
	Status              GradeStatus      `gorm:"type:varchar(10);not null;default:'draft'"      json:"status"`
	DirectPassAverage   *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"direct_pass_average,omitempty"`
	MinExamAverage      *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"min_exam_average,omitempty"`
	DirectFailAverage   *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"direct_fail_average,omitempty"`
	MaxBehindSubjects   *int             `json:"max_behind_subjects,omitempty"`
	LawOfSeven          *bool            `json:"law_of_seven,omitempty"`
	AllowSpecialExam    *bool            `json:"allow_special_exam,omitempty"`
	UseCredits          *bool            `json:"use_credits,omitempty"`
	AutoRomanPrecedence bool             `gorm:"not null;default:false"                         json:"auto_roman_precedence"`
	BaseModel
}

// TableName 指定表名
func (CurriculumGrade) TableName() string { return "curriculum_grades" }

// ── 科目 ──

// KnowledgeArea 科目知识领域
type KnowledgeArea string

const (
	AreaCore          KnowledgeArea = "core"
	AreaComplementary KnowledgeArea = "complementary"
	AreaGeneral       KnowledgeArea = "general"
	AreaProject       KnowledgeArea = "project"
)

// Valid 是否为已知领域
func (a KnowledgeArea) Valid() bool {
	switch a {
	case AreaCore, AreaComplementary, AreaGeneral, AreaProject:
		return true
	}
	return false
}

// Subject 科目表，对应 subjects
type Subject struct {
	SubjectID            string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	CourseID             string        `gorm:"type:uuid;not null;index"                       json:"course_id"`
	GradeID              *string       `gorm:"type:uuid;index"                                json:"grade_id,omitempty"`
	Code                 string        `gorm:"type:varchar(20);not null"                      json:"code"`
	Name                 string        `gorm:"type:varchar(200);not null"                     json:"name"`
	Area                 KnowledgeArea `gorm:"type:varchar(15);not null;default:'core'"       json:"area"`
	Credits              int           `gorm:"not null;default:0"                             json:"credits"`
	Hours                int           `gorm:"not null;default:0"                             json:"hours"`
	CurricularYear       int           `gorm:"not null;default:1"                             json:"curricular_year"`
	Period               int           `gorm:"not null;default:1"                             json:"period"`
	IsProject            bool          `gorm:"not null;default:false"                         json:"is_project"`
	LawOfSevenApplicable bool          `gorm:"not null;default:false"                         json:"law_of_seven_applicable"`
	RequiresTwoPositives bool          `gorm:"not null;default:false"                         json:"requires_two_positives"`
	Active               bool          `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Normalize 项目类科目不适用"七分规则"与"两次正分"要求
func (s *Subject) Normalize() {
	if s.Area == AreaProject {
		s.IsProject = true
	}
	if s.IsProject {
		s.LawOfSevenApplicable = false
		s.RequiresTwoPositives = false
	}
}

// SubjectPrerequisite 科目先修关系（有向边 subject → required），写入时保证无环
type SubjectPrerequisite struct {
	SubjectID         string `gorm:"type:uuid;primaryKey" json:"subject_id"`
	RequiredSubjectID string `gorm:"type:uuid;primaryKey" json:"required_subject_id"`
	BaseModel
}

// TableName 指定表名
func (SubjectPrerequisite) TableName() string { return "subject_prerequisites" }

// PrerequisiteRequirement 课程入学先修要求，对应 prerequisite_requirements
type PrerequisiteRequirement struct {
	RequirementID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	CourseID      string          `gorm:"type:uuid;not null;index"                       json:"course_id"`
	SubjectID     string          `gorm:"type:uuid;not null"                             json:"subject_id"`
	MinimumGrade  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:10"          json:"minimum_grade"`
	Mandatory     bool            `gorm:"not null;default:true"                          json:"mandatory"`
	SortOrder     int             `gorm:"not null;default:0"                             json:"sort_order"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (PrerequisiteRequirement) TableName() string { return "prerequisite_requirements" }
