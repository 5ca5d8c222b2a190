package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Sex 申请人性别（用于录取同分排序）
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// MatriculationStatus 注册状态
type MatriculationStatus string

const (
	MatriculationPending MatriculationStatus = "pending"
	MatriculationDone    MatriculationStatus = "matriculated"
)

// Enrollment 报名申请表，对应 enrollments
// Number 与 EnrolledAt 在首次保存时写入，之后不再变化
type Enrollment struct {
	EnrollmentID        string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	Number              string              `gorm:"type:varchar(20);not null;uniqueIndex"          json:"number"` // INS-000001
	FullName            string              `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Sex                 Sex                 `gorm:"type:varchar(1);not null"                       json:"sex"`
	BirthDate           time.Time           `gorm:"type:date;not null"                             json:"birth_date"`
	IdentityCard        string              `gorm:"type:varchar(30);not null;uniqueIndex"          json:"identity_card"`
	Email               string              `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Phone               string              `gorm:"type:varchar(30);not null;uniqueIndex"          json:"phone"`
	Address             string              `gorm:"type:varchar(255);not null;default:''"          json:"address"`
	CourseID            string              `gorm:"type:uuid;not null;index"                       json:"course_id"`
	YearID              string              `gorm:"type:uuid;not null;index"                       json:"year_id"`
	TestScore           *decimal.Decimal    `gorm:"type:numeric(5,2)"                              json:"test_score"`
	Approved            bool                `gorm:"not null;default:false"                         json:"approved"`
	ResultAt            *time.Time          `json:"result_at"`
	EnrolledAt          time.Time           `gorm:"not null;<-:create"                             json:"enrolled_at"`
	MatriculationStatus MatriculationStatus `gorm:"type:varchar(15);not null;default:'pending'"    json:"matriculation_status"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// AcademicHistory 申请人既往学业记录（与报名一对一）， 对应 academic_histories
type AcademicHistory struct {
	HistoryID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	EnrollmentID   string `gorm:"type:uuid;not null;uniqueIndex"                 json:"enrollment_id"`
	PreviousSchool string `gorm:"type:varchar(200);not null;default:''"          json:"previous_school"`
	CompletionYear int    `gorm:"not null;default:0"                             json:"completion_year"`
	BaseModel

	// 关联
	Grades []SubjectGrade `gorm:"foreignKey:HistoryID;references:HistoryID" json:"grades,omitempty"`
}

// TableName 指定表名
func (AcademicHistory) TableName() string { return "academic_histories" }

// SubjectGrade 既往科目成绩，(history, subject) 唯一，对应 subject_grades
type SubjectGrade struct {
	SubjectGradeID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_grade_id"`
	HistoryID      string          `gorm:"type:uuid;not null;uniqueIndex:uq_history_subject" json:"history_id"`
	SubjectID      string          `gorm:"type:uuid;not null;uniqueIndex:uq_history_subject" json:"subject_id"`
	Grade          decimal.Decimal `gorm:"type:numeric(5,2);not null"                     json:"grade"`
	CompletionYear int             `gorm:"not null;default:0"                             json:"completion_year"`
	BaseModel
}

// TableName 指定表名
func (SubjectGrade) TableName() string { return "subject_grades" }

// AdmissionRun 录取排名执行记录，对应 admission_runs
// Snapshot 保存参与排名的报名、分数与结果，便于事后核对
type AdmissionRun struct {
	RunID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"run_id"`
	CourseID      string          `gorm:"type:uuid;not null;index"                       json:"course_id"`
	YearID        string          `gorm:"type:uuid;not null"                             json:"year_id"`
	Criterion     string          `gorm:"type:varchar(20);not null"                      json:"criterion"`
	Capacity      int             `gorm:"not null"                                       json:"capacity"`
	MinimumScore  decimal.Decimal `gorm:"type:numeric(5,2);not null"                     json:"minimum_score"`
	EligibleCount int             `gorm:"not null"                                       json:"eligible_count"`
	ApprovedCount int             `gorm:"not null"                                       json:"approved_count"`
	Snapshot      datatypes.JSON  `gorm:"type:jsonb;not null"                            json:"snapshot"`
	RunBy         *string         `gorm:"type:uuid"                                      json:"run_by,omitempty"`
	RunAt         time.Time       `gorm:"not null"                                       json:"run_at"`
}

// TableName 指定表名
func (AdmissionRun) TableName() string { return "admission_runs" }
