package dto

// ── 教室 ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	Name     string `json:"name"     binding:"required,notblank,max=100"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=1000"`
	Kind     string `json:"kind"     binding:"omitempty,oneof=normal laboratory"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name     *string `json:"name"     binding:"omitempty,notblank,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1,max=1000"`
	Kind     *string `json:"kind"     binding:"omitempty,oneof=normal laboratory"`
	Active   *bool   `json:"active"`
}

// RoomListRequest 教室列表查询参数
type RoomListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// RoomResponse 教室响应
type RoomResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Kind     string `json:"kind"`
	Active   bool   `json:"active"`
}

// ── 班级 ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name             string  `json:"name"              binding:"required,notblank,max=100"`
	CourseID         string  `json:"course_id"         binding:"required,uuid"`
	YearID           string  `json:"year_id"           binding:"omitempty,uuid"` // 默认当前学年
	CurricularYear   int     `json:"curricular_year"   binding:"required,min=1,max=10"`
	CurricularPeriod int     `json:"curricular_period" binding:"omitempty,min=1,max=4"`
	Shift            string  `json:"shift"             binding:"omitempty,oneof=morning afternoon evening"`
	Capacity         int     `json:"capacity"          binding:"omitempty,min=1,max=1000"`
	RoomID           *string `json:"room_id"           binding:"omitempty,uuid"`
}

// UpdateClassRequest 更新班级请求；课程与学年不可修改
type UpdateClassRequest struct {
	Name             *string `json:"name"              binding:"omitempty,notblank,max=100"`
	CurricularYear   *int    `json:"curricular_year"   binding:"omitempty,min=1,max=10"`
	CurricularPeriod *int    `json:"curricular_period" binding:"omitempty,min=1,max=4"`
	Shift            *string `json:"shift"             binding:"omitempty,oneof=morning afternoon evening"`
	Capacity         *int    `json:"capacity"          binding:"omitempty,min=1,max=1000"`
	RoomID           *string `json:"room_id"           binding:"omitempty,uuid"`
	Active           *bool   `json:"active"`
}

// ClassListRequest 班级列表查询参数
type ClassListRequest struct {
	CourseID       string `form:"course_id"       binding:"omitempty,uuid"`
	YearID         string `form:"year_id"         binding:"omitempty,uuid"` // 默认当前学年
	CurricularYear int    `form:"curricular_year" binding:"omitempty,min=1,max=10"`
}

// ClassResponse 班级响应
type ClassResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	CourseID         string  `json:"course_id"`
	YearID           string  `json:"year_id"`
	CurricularYear   int     `json:"curricular_year"`
	CurricularPeriod int     `json:"curricular_period"`
	Shift            string  `json:"shift"`
	Capacity         int     `json:"capacity"`
	RoomID           *string `json:"room_id"`
	Active           bool    `json:"active"`
}

// AssignClassSubjectRequest 为班级开设科目并指定任课教师
type AssignClassSubjectRequest struct {
	SubjectID   string  `json:"subject_id"   binding:"required,uuid"`
	ProfessorID *string `json:"professor_id" binding:"omitempty,uuid"`
}

// ClassSubjectResponse 班级开设的科目
type ClassSubjectResponse struct {
	SubjectID   string  `json:"subject_id"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name,omitempty"`
	ProfessorID *string `json:"professor_id"`
}

// ── 课表 ──

// CreateLessonRequest 排课请求；professor_id 为空时使用班级科目的任课教师
type CreateLessonRequest struct {
	ClassID     string  `json:"class_id"     binding:"required,uuid"`
	SubjectID   string  `json:"subject_id"   binding:"required,uuid"`
	PeriodID    string  `json:"period_id"    binding:"required,uuid"`
	ProfessorID string  `json:"professor_id" binding:"omitempty,uuid"`
	RoomID      *string `json:"room_id"      binding:"omitempty,uuid"` // 默认班级主教室
	Weekday     int     `json:"weekday"      binding:"required,min=1,max=6"`
	StartTime   string  `json:"start_time"   binding:"required"` // "08:00"
	EndTime     string  `json:"end_time"     binding:"required"`
	Kind        string  `json:"kind"         binding:"omitempty,oneof=theory practical laboratory seminar"`
	Slots       int     `json:"slots"        binding:"omitempty,min=1,max=10"`
}

// UpdateLessonRequest 调整课节；version 用于乐观锁
type UpdateLessonRequest struct {
	ProfessorID *string `json:"professor_id" binding:"omitempty,uuid"`
	RoomID      *string `json:"room_id"      binding:"omitempty,uuid"`
	Weekday     *int    `json:"weekday"      binding:"omitempty,min=1,max=6"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Kind        *string `json:"kind"         binding:"omitempty,oneof=theory practical laboratory seminar"`
	Status      *string `json:"status"       binding:"omitempty,oneof=active cancelled suspended"`
	Slots       *int    `json:"slots"        binding:"omitempty,min=1,max=10"`
	Version     int     `json:"version"      binding:"required,min=1"`
}

// TimetableRequest 课表查询参数
type TimetableRequest struct {
	PeriodID string `form:"period_id" binding:"omitempty,uuid"` // 默认当前学年的当前学期
}

// LessonResponse 课节响应
type LessonResponse struct {
	ID          string  `json:"id"`
	ClassID     string  `json:"class_id"`
	SubjectID   string  `json:"subject_id"`
	ProfessorID string  `json:"professor_id"`
	RoomID      *string `json:"room_id"`
	PeriodID    string  `json:"period_id"`
	Weekday     int     `json:"weekday"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Kind        string  `json:"kind"`
	Status      string  `json:"status"`
	Slots       int     `json:"slots"`
	Version     int     `json:"version"`
}

// TimetableResponse 某班级、教师或教室在一个学期的课表
type TimetableResponse struct {
	PeriodID string           `json:"period_id"`
	Lessons  []LessonResponse `json:"lessons"`
}
