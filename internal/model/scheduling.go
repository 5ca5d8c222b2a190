package model

// RoomKind 教室类型
type RoomKind string

const (
	RoomNormal     RoomKind = "normal"
	RoomLaboratory RoomKind = "laboratory"
)

// Valid 是否为已知类型
func (k RoomKind) Valid() bool {
	return k == RoomNormal || k == RoomLaboratory
}

// Room 教室表，对应 rooms
type Room struct {
	RoomID   string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity int      `gorm:"not null"                                       json:"capacity"`
	Kind     RoomKind `gorm:"type:varchar(15);not null;default:'normal'"     json:"kind"`
	Active   bool     `gorm:"not null;default:true"                          json:"active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Shift 上课时段
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// Valid 是否为已知时段
func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}

// ClassGroup 班级表，对应 class_groups
// 一个班级属于某课程的某学年某年级；(course, year, name) 唯一
type ClassGroup struct {
	ClassID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	Name             string  `gorm:"type:varchar(100);not null"                     json:"name"`
	CourseID         string  `gorm:"type:uuid;not null;index"                       json:"course_id"`
	YearID           string  `gorm:"type:uuid;not null;index"                       json:"year_id"`
	CurricularYear   int     `gorm:"not null;default:1"                             json:"curricular_year"`
	CurricularPeriod int     `gorm:"not null;default:1"                             json:"curricular_period"`
	Shift            Shift   `gorm:"type:varchar(10);not null;default:'morning'"    json:"shift"`
	Capacity         int     `gorm:"not null;default:40"                            json:"capacity"`
	RoomID           *string `gorm:"type:uuid"                                      json:"room_id,omitempty"` // 主教室
	Active           bool    `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (ClassGroup) TableName() string { return "class_groups" }

// ClassSubject 班级开设的科目及任课教师，对应 class_subjects
type ClassSubject struct {
	ClassID     string  `gorm:"type:uuid;primaryKey" json:"class_id"`
	SubjectID   string  `gorm:"type:uuid;primaryKey" json:"subject_id"`
	ProfessorID *string `gorm:"type:uuid"            json:"professor_id,omitempty"`
	BaseModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (ClassSubject) TableName() string { return "class_subjects" }

// LessonKind 课节类型
type LessonKind string

const (
	LessonTheory     LessonKind = "theory"
	LessonPractical  LessonKind = "practical"
	LessonLaboratory LessonKind = "laboratory"
	LessonSeminar    LessonKind = "seminar"
)

// Valid 是否为已知类型
func (k LessonKind) Valid() bool {
	switch k {
	case LessonTheory, LessonPractical, LessonLaboratory, LessonSeminar:
		return true
	}
	return false
}

// LessonStatus 课节状态；只有 active 占用教室与教师
type LessonStatus string

const (
	LessonActive    LessonStatus = "active"
	LessonCancelled LessonStatus = "cancelled"
	LessonSuspended LessonStatus = "suspended"
)

// Valid 是否为已知状态
func (s LessonStatus) Valid() bool {
	switch s {
	case LessonActive, LessonCancelled, LessonSuspended:
		return true
	}
	return false
}

// Lesson 课表中的一节课，对应 lessons
// 按学期排定，每周固定星期与起止时间（HH:MM）
type Lesson struct {
	LessonID    string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_id"`
	ClassID     string       `gorm:"type:uuid;not null;index"                       json:"class_id"`
	SubjectID   string       `gorm:"type:uuid;not null"                             json:"subject_id"`
	ProfessorID string       `gorm:"type:uuid;not null;index"                       json:"professor_id"`
	RoomID      *string      `gorm:"type:uuid;index"                                json:"room_id,omitempty"`
	PeriodID    string       `gorm:"type:uuid;not null;index"                       json:"period_id"`
	Weekday     int          `gorm:"type:smallint;not null"                         json:"weekday"` // 1-6，周一到周六
	StartTime   string       `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime     string       `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Kind        LessonKind   `gorm:"type:varchar(15);not null;default:'theory'"     json:"kind"`
	Status      LessonStatus `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	Slots       int          `gorm:"not null;default:2"                             json:"slots"` // 课时数
	VersionedModel
}

// TableName 指定表名
func (Lesson) TableName() string { return "lessons" }
