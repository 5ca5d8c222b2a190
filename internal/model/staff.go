package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student 学生表，对应 students
// 只能由报名注册（Matriculate）产生
type Student struct {
	StudentID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Number         string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"number"` // ALU-000001
	EnrollmentID   string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"enrollment_id"`
	FullName       string  `gorm:"type:varchar(200);not null"                     json:"full_name"`
	CourseID       string  `gorm:"type:uuid;not null;index"                       json:"course_id"`
	YearID         string  `gorm:"type:uuid;not null"                             json:"year_id"` // 入学学年
	CurricularYear int     `gorm:"not null;default:1"                             json:"curricular_year"`
	UserID         *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Active         bool    `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// Professor 教师表，对应 professors
type Professor struct {
	ProfessorID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"professor_id"`
	Code        string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"` // PROF/2025/0001
	FullName    string  `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Email       string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	Phone       string  `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	Degree      string  `gorm:"type:varchar(100);not null;default:''"          json:"degree"`
	YearID      string  `gorm:"type:uuid;not null"                             json:"year_id"` // 入职学年
	UserID      *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Active      bool    `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (Professor) TableName() string { return "professors" }

// StudentGrade 学生科目成绩，对应 student_grades
// (student, subject, period) 唯一，重复录入时覆盖
type StudentGrade struct {
	StudentGradeID    string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_grade_id"`
	StudentID         string           `gorm:"type:uuid;not null;uniqueIndex:uq_student_subject_period" json:"student_id"`
	SubjectID         string           `gorm:"type:uuid;not null;uniqueIndex:uq_student_subject_period" json:"subject_id"`
	PeriodID          string           `gorm:"type:uuid;not null;uniqueIndex:uq_student_subject_period" json:"period_id"`
	YearID            string           `gorm:"type:uuid;not null;index"                       json:"year_id"`
	ProfessorID       *string          `gorm:"type:uuid"                                      json:"professor_id,omitempty"`
	Partial1          *decimal.Decimal `gorm:"column:partial1;type:numeric(5,2)"               json:"partial_1"`
	Partial2          *decimal.Decimal `gorm:"column:partial2;type:numeric(5,2)"               json:"partial_2"`
	Exam              *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"exam"`
	Retake            *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"retake"`
	Attendance        *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"attendance"`
	ContinuousAverage *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"continuous_average"`
	FinalGrade        *decimal.Decimal `gorm:"type:numeric(5,2)"                              json:"final_grade"`
	Outcome           string           `gorm:"type:varchar(20);not null"                      json:"outcome"`
	Reason            string           `gorm:"type:varchar(200);not null;default:''"          json:"reason"`
	EvaluatedAt       time.Time        `gorm:"not null"                                       json:"evaluated_at"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (StudentGrade) TableName() string { return "student_grades" }

// NumberSequence 编号计数器，对应 number_sequences
// Scope 形如 "enrollment"、"student"、"professor:2025"
type NumberSequence struct {
	Scope     string `gorm:"type:varchar(40);primaryKey" json:"scope"`
	LastValue int64  `gorm:"not null;default:0"          json:"last_value"`
}

// TableName 指定表名
func (NumberSequence) TableName() string { return "number_sequences" }
