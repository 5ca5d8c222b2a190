package service

import (
	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/jwt"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth           AuthService
	User           UserService
	AcademicYear   AcademicYearService
	Calendar       CalendarService
	LecturePeriod  LecturePeriodService
	Curriculum     CurriculumService
	Subject        SubjectService
	AcademicConfig AcademicConfigService
	Enrollment     EnrollmentService
	Grading        GradingService
	Staff          StaffService
	Export         ExportService
	Room           RoomService
	Class          ClassService
	Timetable      TimetableService
	Subscription   SubscriptionService
	Notice         NoticeService
}

// NewService 创建 Service 聚合；redisClient 为 nil 时禁用 token 黑名单与配置缓存
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	// 避免把 nil 指针装进接口
	var (
		blacklist TokenBlacklist
		cache     JSONCache
	)
	if redisClient != nil {
		blacklist = redisClient
		cache = redisClient
	}

	academics := NewAcademicConfigService(repo, cfg.Academic, cache, logger)

	return &Service{
		Auth:           NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:           NewUserService(repo, logger),
		AcademicYear:   NewAcademicYearService(repo, cfg.Academic, logger),
		Calendar:       NewCalendarService(repo, cfg.Academic, logger),
		LecturePeriod:  NewLecturePeriodService(repo, cfg.Academic, logger),
		Curriculum:     NewCurriculumService(repo, logger),
		Subject:        NewSubjectService(repo, logger),
		AcademicConfig: academics,
		Enrollment:     NewEnrollmentService(repo, cfg.Academic, academics, logger),
		Grading:        NewGradingService(repo, cfg.Academic, academics, logger),
		Staff:          NewStaffService(repo, logger),
		Export:         NewExportService(repo, logger),
		Room:           NewRoomService(repo, logger),
		Class:          NewClassService(repo, cfg.Academic, logger),
		Timetable:      NewTimetableService(repo, cfg.Academic, logger),
		Subscription:   NewSubscriptionService(repo, cfg.Academic, logger),
		Notice:         NewNoticeService(repo, logger),
	}
}
