package model

import "time"

// NoticeKind 站内通知类型
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeUrgent  NoticeKind = "urgent"
	NoticeSystem  NoticeKind = "system"
)

// Valid 是否为已知类型
func (k NoticeKind) Valid() bool {
	switch k {
	case NoticeInfo, NoticeWarning, NoticeUrgent, NoticeSystem:
		return true
	}
	return false
}

// Notice 站内通知，对应 notices
// Global 为 true 时所有用户可见，否则只对 notice_recipients 中的用户可见
type Notice struct {
	NoticeID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notice_id"`
	Title    string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Message  string     `gorm:"type:text;not null"                             json:"message"`
	Kind     NoticeKind `gorm:"type:varchar(10);not null;default:'info'"       json:"kind"`
	Global   bool       `gorm:"column:is_global;not null;default:false"        json:"global"`
	Active   bool       `gorm:"not null;default:true"                          json:"active"`
	BaseModel
}

// TableName 指定表名
func (Notice) TableName() string { return "notices" }

// NoticeRecipient 定向通知的接收人，对应 notice_recipients
type NoticeRecipient struct {
	NoticeID string `gorm:"type:uuid;primaryKey" json:"notice_id"`
	UserID   string `gorm:"type:uuid;primaryKey" json:"user_id"`
}

// TableName 指定表名
func (NoticeRecipient) TableName() string { return "notice_recipients" }

// NoticeRead 已读记录，对应 notice_reads
type NoticeRead struct {
	NoticeID string    `gorm:"type:uuid;primaryKey" json:"notice_id"`
	UserID   string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReadAt   time.Time `gorm:"not null"             json:"read_at"`
}

// TableName 指定表名
func (NoticeRead) TableName() string { return "notice_reads" }

// NoticeView 某个用户看到的一条通知
type NoticeView struct {
	Notice
	Read bool `gorm:"column:is_read" json:"read"`
}
