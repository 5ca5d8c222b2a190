package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/api/handler"
	"github.com/OsvaldoFernando/SIGE-APP/internal/api/middleware"
	"github.com/OsvaldoFernando/SIGE-APP/internal/api/validation"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/jwt"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/redis"
)

// maxBodyBytes 请求体上限（ICS 导入为最大的请求）
const maxBodyBytes = 4 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	userLoader middleware.UserLoader,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			logger.Fatal("注册校验规则失败", zap.Error(err))
		}
	}

	// 避免把 nil 指针装进接口
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	can := middleware.RequireCapability

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 公开报名
		public := v1.Group("/public")
		{
			public.POST("/enrollments", middleware.RateLimit(limiter, cfg.RateLimit.EnrollmentLimit, cfg.RateLimit.EnrollmentWindow), h.Enrollment.Submit)
			public.GET("/enrollments/:number", h.Enrollment.Status)
			public.GET("/courses", h.Curriculum.ListCourses)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, userLoader))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户管理
			users := authorized.Group("/users", can(model.CapManageUsers))
			{
				users.POST("", h.User.CreateUser)
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id/role", h.User.AssignRole)
				users.PUT("/:id/active", h.User.SetActive)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			// 学年、学期与校历
			years := authorized.Group("/academic-years")
			{
				years.GET("", can(model.CapViewAcademic), h.AcademicYear.List)
				years.GET("/current", can(model.CapViewAcademic), h.AcademicYear.GetCurrent)
				years.GET("/:id", can(model.CapViewAcademic), h.AcademicYear.Get)
				years.GET("/:id/enrollments-open", can(model.CapViewAcademic), h.AcademicYear.EnrollmentsOpen)
				years.POST("", can(model.CapManageCalendar), h.AcademicYear.Create)
				years.PUT("/:id", can(model.CapManageCalendar), h.AcademicYear.Update)
				years.PUT("/:id/current", can(model.CapManageCalendar), h.AcademicYear.SetCurrent)
				years.DELETE("/:id", can(model.CapManageCalendar), h.AcademicYear.Delete)

				years.GET("/:id/periods", can(model.CapViewAcademic), h.AcademicYear.ListPeriods)
				years.GET("/:id/periods/current", can(model.CapViewAcademic), h.AcademicYear.GetCurrentPeriod)
				years.POST("/:id/periods", can(model.CapManageCalendar), h.AcademicYear.CreatePeriod)

				years.GET("/:id/events", can(model.CapViewAcademic), h.Calendar.ListEvents)
				years.POST("/:id/events", can(model.CapManageCalendar), h.Calendar.CreateEvent)
				years.GET("/:id/calendar.ics", can(model.CapViewAcademic), h.Calendar.ExportICS)
				years.POST("/:id/calendar.ics", can(model.CapManageCalendar), h.Calendar.ImportICS)
			}

			periods := authorized.Group("/periods")
			{
				periods.GET("/:id", can(model.CapViewAcademic), h.AcademicYear.GetPeriod)
				periods.PUT("/:id", can(model.CapManageCalendar), h.AcademicYear.UpdatePeriod)
				periods.PUT("/:id/current", can(model.CapManageCalendar), h.AcademicYear.SetCurrentPeriod)
			}

			events := authorized.Group("/events")
			{
				events.GET("/:id", can(model.CapViewAcademic), h.Calendar.GetEvent)
				events.GET("/:id/occurring", can(model.CapViewAcademic), h.Calendar.IsOccurring)
				events.PUT("/:id", can(model.CapManageCalendar), h.Calendar.UpdateEvent)
				events.DELETE("/:id", can(model.CapManageCalendar), h.Calendar.DeleteEvent)
			}

			// 学历层次、课程与课程方案
			levels := authorized.Group("/levels")
			{
				levels.GET("", can(model.CapViewAcademic), h.Curriculum.ListLevels)
				levels.GET("/:id", can(model.CapViewAcademic), h.Curriculum.GetLevel)
				levels.POST("", can(model.CapManageCurriculum), h.Curriculum.CreateLevel)
				levels.PUT("/:id", can(model.CapManageCurriculum), h.Curriculum.UpdateLevel)
			}

			courses := authorized.Group("/courses")
			{
				courses.GET("", can(model.CapViewAcademic), h.Curriculum.ListCourses)
				courses.GET("/:id", can(model.CapViewAcademic), h.Curriculum.GetCourse)
				courses.GET("/:id/seats", can(model.CapViewAcademic), h.Curriculum.AvailableSeats)
				courses.POST("", can(model.CapManageCurriculum), h.Curriculum.CreateCourse)
				courses.PUT("/:id", can(model.CapManageCurriculum), h.Curriculum.UpdateCourse)
				courses.PUT("/:id/toggle-active", can(model.CapManageCurriculum), h.Curriculum.ToggleActive)

				courses.GET("/:id/prerequisites", can(model.CapViewAcademic), h.Curriculum.ListPrerequisites)
				courses.PUT("/:id/prerequisites", can(model.CapManageCurriculum), h.Curriculum.SetPrerequisites)

				courses.GET("/:id/grades", can(model.CapViewAcademic), h.Curriculum.ListGrades)
				courses.POST("/:id/grades", can(model.CapManageCurriculum), h.Curriculum.CreateGrade)

				courses.GET("/:id/subjects", can(model.CapViewAcademic), h.Subject.ListByCourse)
				courses.POST("/:id/subjects", can(model.CapManageCurriculum), h.Subject.Create)

				courses.GET("/:id/admissions", can(model.CapManageAdmissions), h.Enrollment.ListAdmissionRuns)
				courses.POST("/:id/admissions", can(model.CapManageAdmissions), h.Enrollment.RunAdmission)
			}

			grades := authorized.Group("/grades")
			{
				grades.GET("/:id", can(model.CapViewAcademic), h.Curriculum.GetGrade)
				grades.PUT("/:id", can(model.CapManageCurriculum), h.Curriculum.UpdateGrade)
				grades.PUT("/:id/activate", can(model.CapManageCurriculum), h.Curriculum.ActivateGrade)
			}

			subjects := authorized.Group("/subjects")
			{
				subjects.GET("/:id", can(model.CapViewAcademic), h.Subject.Get)
				subjects.PUT("/:id", can(model.CapManageCurriculum), h.Subject.Update)
				subjects.DELETE("/:id", can(model.CapManageCurriculum), h.Subject.Delete)
				subjects.POST("/:id/prerequisites", can(model.CapManageCurriculum), h.Subject.AddPrerequisite)
				subjects.DELETE("/:id/prerequisites/:requiredId", can(model.CapManageCurriculum), h.Subject.RemovePrerequisite)
			}

			// 全局学术配置
			authorized.GET("/academic-config", can(model.CapViewAcademic), h.AcademicConfig.Get)
			authorized.PUT("/academic-config", can(model.CapManageConfig), h.AcademicConfig.Update)

			// 报名管理
			enrollments := authorized.Group("/enrollments", can(model.CapManageAdmissions))
			{
				enrollments.GET("", h.Enrollment.List)
				enrollments.PUT("/test-scores", h.Enrollment.RecordTestScores)
				enrollments.GET("/:id", h.Enrollment.Get)
				enrollments.GET("/:id/eligibility", h.Enrollment.Eligibility)
				enrollments.GET("/:id/prior-grades", h.Enrollment.ListPriorGrades)
				enrollments.PUT("/:id/prior-grades", h.Enrollment.UpsertPriorGrade)
				enrollments.POST("/:id/matriculation", h.Enrollment.Matriculate)
				enrollments.DELETE("/:id/matriculation", h.Enrollment.CancelMatriculation)
			}

			// 成绩
			authorized.PUT("/grading/records", can(model.CapRecordGrades), h.Grading.RecordGrades)

			// 教师与学生档案
			professors := authorized.Group("/professors")
			{
				professors.GET("", can(model.CapViewAcademic), h.Staff.ListProfessors)
				professors.GET("/:id", can(model.CapViewAcademic), h.Staff.GetProfessor)
				professors.POST("", can(model.CapManageStaff), h.Staff.CreateProfessor)
				professors.PUT("/:id", can(model.CapManageStaff), h.Staff.UpdateProfessor)
				professors.GET("/:id/timetable", can(model.CapViewAcademic), h.Scheduling.ProfessorTimetable)
			}

			students := authorized.Group("/students", can(model.CapViewAcademic))
			{
				students.GET("", h.Staff.ListStudents)
				students.GET("/:id", h.Staff.GetStudent)
				students.GET("/:id/evaluation", h.Grading.EvaluateStudent)
				students.GET("/:id/progression", h.Grading.CheckProgression)
			}

			// 教室、班级与课表
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", can(model.CapViewAcademic), h.Scheduling.ListRooms)
				rooms.GET("/:id", can(model.CapViewAcademic), h.Scheduling.GetRoom)
				rooms.GET("/:id/timetable", can(model.CapViewAcademic), h.Scheduling.RoomTimetable)
				rooms.POST("", can(model.CapManageCalendar), h.Scheduling.CreateRoom)
				rooms.PUT("/:id", can(model.CapManageCalendar), h.Scheduling.UpdateRoom)
				rooms.DELETE("/:id", can(model.CapManageCalendar), h.Scheduling.DeleteRoom)
			}

			classes := authorized.Group("/classes")
			{
				classes.GET("", can(model.CapViewAcademic), h.Scheduling.ListClasses)
				classes.GET("/:id", can(model.CapViewAcademic), h.Scheduling.GetClass)
				classes.GET("/:id/subjects", can(model.CapViewAcademic), h.Scheduling.ListClassSubjects)
				classes.GET("/:id/timetable", can(model.CapViewAcademic), h.Scheduling.ClassTimetable)
				classes.POST("", can(model.CapManageCalendar), h.Scheduling.CreateClass)
				classes.PUT("/:id", can(model.CapManageCalendar), h.Scheduling.UpdateClass)
				classes.PUT("/:id/subjects", can(model.CapManageCalendar), h.Scheduling.AssignClassSubject)
				classes.DELETE("/:id/subjects/:subject_id", can(model.CapManageCalendar), h.Scheduling.RemoveClassSubject)
			}

			lessons := authorized.Group("/lessons")
			{
				lessons.GET("/:id", can(model.CapViewAcademic), h.Scheduling.GetLesson)
				lessons.POST("", can(model.CapManageCalendar), h.Scheduling.CreateLesson)
				lessons.PUT("/:id", can(model.CapManageCalendar), h.Scheduling.UpdateLesson)
				lessons.DELETE("/:id", can(model.CapManageCalendar), h.Scheduling.DeleteLesson)
			}

			// 学校订阅；状态对所有登录用户可见
			subscription := authorized.Group("/subscription")
			{
				subscription.GET("", h.Subscription.Current)
				subscription.POST("", can(model.CapManageConfig), h.Subscription.Start)
				subscription.GET("/payments", can(model.CapManageConfig), h.Subscription.ListPayments)
				subscription.POST("/payments", can(model.CapManageConfig), h.Subscription.SubmitPayment)
				subscription.POST("/payments/:id/review", can(model.CapManageConfig), h.Subscription.ReviewPayment)
			}

			// 站内通知
			notices := authorized.Group("/notices", can(model.CapManageConfig))
			{
				notices.GET("", h.Notice.List)
				notices.POST("", h.Notice.Create)
				notices.PUT("/:id/active", h.Notice.SetActive)
			}

			me := authorized.Group("/me/notices")
			{
				me.GET("", h.Notice.ListMine)
				me.GET("/unread-count", h.Notice.UnreadCount)
				me.POST("/read-all", h.Notice.MarkAllRead)
				me.POST("/:id/read", h.Notice.MarkRead)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/admissions", can(model.CapManageAdmissions), h.Export.ExportAdmissionList)
				export.GET("/grades", can(model.CapRecordGrades), h.Export.ExportGradeSheet)
			}
		}
	}

	return r
}
