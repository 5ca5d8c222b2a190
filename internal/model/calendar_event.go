package model

import "time"

// EventType 校历事件类型
type EventType string

const (
	EventEnrollment    EventType = "enrollment"
	EventMatriculation EventType = "matriculation"
	EventPartialExam1  EventType = "partial_exam_1"
	EventPartialExam2  EventType = "partial_exam_2"
	EventFinalExam     EventType = "final_exam"
	EventRetake        EventType = "retake"
	EventSpecialExam   EventType = "special_exam"
	EventVacation      EventType = "vacation"
	EventOther         EventType = "other"
)

// Valid 是否为已知事件类型
func (t EventType) Valid() bool {
	switch t {
	case EventEnrollment, EventMatriculation, EventPartialExam1, EventPartialExam2,
		EventFinalExam, EventRetake, EventSpecialExam, EventVacation, EventOther:
		return true
	}
	return false
}

// EventStatus 事件状态
type EventStatus string

const (
	EventActive EventStatus = "active"
	EventClosed EventStatus = "closed"
)

// CalendarEvent 校历事件表，对应 calendar_events
type CalendarEvent struct {
	EventID     string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	YearID      string      `gorm:"type:uuid;not null;index"                       json:"year_id"`
	Title       string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string      `gorm:"type:text;not null;default:''"                  json:"description"`
	Type        EventType   `gorm:"type:varchar(20);not null"                      json:"type"`
	StartDate   time.Time   `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time   `gorm:"type:date;not null"                             json:"end_date"`
	Status      EventStatus `gorm:"type:varchar(10);not null;default:'active'"     json:"status"`
	BaseModel
}

// TableName 指定表名
func (CalendarEvent) TableName() string { return "calendar_events" }

// LecturePeriod 学期表，对应 lecture_periods
// 同一学年内至多一个 is_current
type LecturePeriod struct {
	PeriodID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	YearID    string     `gorm:"type:uuid;not null;index"                       json:"year_id"`
	Name      string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Number    int        `gorm:"not null"                                       json:"number"` // 学年内第几个学期
	StartDate time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Status    YearStatus `gorm:"type:varchar(10);not null;default:'planned'"    json:"status"`
	IsCurrent bool       `gorm:"not null;default:false"                         json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (LecturePeriod) TableName() string { return "lecture_periods" }
