package handler

import "github.com/OsvaldoFernando/SIGE-APP/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth           *AuthHandler
	User           *UserHandler
	AcademicYear   *AcademicYearHandler
	Calendar       *CalendarHandler
	Curriculum     *CurriculumHandler
	Subject        *SubjectHandler
	AcademicConfig *AcademicConfigHandler
	Enrollment     *EnrollmentHandler
	Grading        *GradingHandler
	Staff          *StaffHandler
	Export         *ExportHandler
	Scheduling     *SchedulingHandler
	Subscription   *SubscriptionHandler
	Notice         *NoticeHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		User:           NewUserHandler(svc.User),
		AcademicYear:   NewAcademicYearHandler(svc.AcademicYear, svc.LecturePeriod),
		Calendar:       NewCalendarHandler(svc.Calendar),
		Curriculum:     NewCurriculumHandler(svc.Curriculum),
		Subject:        NewSubjectHandler(svc.Subject),
		AcademicConfig: NewAcademicConfigHandler(svc.AcademicConfig),
		Enrollment:     NewEnrollmentHandler(svc.Enrollment),
		Grading:        NewGradingHandler(svc.Grading),
		Staff:          NewStaffHandler(svc.Staff),
		Export:         NewExportHandler(svc.Export),
		Scheduling:     NewSchedulingHandler(svc.Room, svc.Class, svc.Timetable),
		Subscription:   NewSubscriptionHandler(svc.Subscription),
		Notice:         NewNoticeHandler(svc.Notice),
	}
}
