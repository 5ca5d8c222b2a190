package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// errorCode 模块错误 → 业务码；status 为 0 时按错误分类决定 HTTP 状态码
type errorCode struct {
	err    error
	code   int
	status int
}

// 业务码区间：11xxx 认证与用户、12xxx 学年、13xxx 校历与学期、14xxx 课程、
// 15xxx 科目、16xxx 报名、17xxx 成绩、18xxx 教职工、19xxx 学术配置、20xxx 导出、
// 21xxx 教室班级与课表、22xxx 订阅、23xxx 站内通知
var errorCodes = []errorCode{
	// ── 认证与用户 ──
	{service.ErrInvalidCredentials, 11001, http.StatusUnauthorized},
	{service.ErrUserDisabled, 11002, http.StatusForbidden},
	{service.ErrTokenRevoked, 11003, http.StatusUnauthorized},
	{service.ErrWrongTokenType, 11004, http.StatusUnauthorized},
	{service.ErrWeakPassword, 11005, 0},
	{service.ErrOldPasswordWrong, 11006, 0},
	{service.ErrUserNotFound, 11007, 0},
	{service.ErrUsernameExists, 11008, 0},
	{service.ErrUnknownRole, 11009, 0},
	{service.ErrUserSelfRoleChange, 11010, 0},
	{service.ErrUserSelfDisable, 11011, 0},

	// ── 学年 ──
	{service.ErrAcademicYearNotFound, 12001, 0},
	{service.ErrNoCurrentAcademicYear, 12002, 0},
	{service.ErrAcademicYearCodeExists, 12003, 0},
	{service.ErrAcademicYearIsCurrent, 12004, 0},
	{service.ErrPenaltyPctInvalid, 12005, 0},
	{service.ErrAcademicYearClosed, 12006, 0},
	{rules.ErrYearCodeInvalid, 12007, 0},
	{rules.ErrDateRangeInvalid, 12008, 0},
	{service.ErrInvalidDate, 12009, 0},

	// ── 校历与学期 ──
	{service.ErrCalendarEventNotFound, 13001, 0},
	{service.ErrICSInvalid, 13002, 0},
	{service.ErrLecturePeriodNotFound, 13101, 0},
	{service.ErrNoCurrentLecturePeriod, 13102, 0},
	{service.ErrLecturePeriodExists, 13103, 0},
	{service.ErrPeriodOutsideYear, 13104, 0},

	// ── 课程 ──
	{service.ErrLevelNotFound, 14001, 0},
	{service.ErrLevelCodeExists, 14002, 0},
	{service.ErrLevelScaleInvalid, 14003, 0},
	{service.ErrCourseNotFound, 14101, 0},
	{service.ErrCourseCodeExists, 14102, 0},
	{service.ErrCourseInactive, 14103, 0},
	{service.ErrPrerequisiteForeign, 14104, 0},
	{service.ErrPrerequisiteDuplicate, 14105, 0},
	{service.ErrCurriculumGradeNotFound, 14201, 0},
	{service.ErrCurriculumGradeExists, 14202, 0},
	{service.ErrCurriculumGradeObsolete, 14203, 0},

	// ── 科目 ──
	{service.ErrSubjectNotFound, 15001, 0},
	{service.ErrSubjectCodeExists, 15002, 0},
	{service.ErrSubjectInUse, 15003, 0},
	{service.ErrSubjectGradeMismatch, 15004, 0},
	{service.ErrPrerequisiteCourse, 15005, 0},
	{service.ErrPrerequisiteNotFound, 15006, 0},
	{service.ErrPrerequisiteEdgeExists, 15007, 0},
	{rules.ErrSelfPrerequisite, 15008, 0},
	{rules.ErrPrerequisiteCycle, 15009, 0},

	// ── 报名 ──
	{service.ErrEnrollmentNotFound, 16001, 0},
	{service.ErrEnrollmentClosed, 16002, 0},
	{service.ErrEnrollmentDuplicate, 16003, 0},
	{service.ErrEnrollmentNotApproved, 16004, 0},
	{service.ErrAlreadyMatriculated, 16005, 0},
	{service.ErrNotMatriculated, 16006, 0},
	{service.ErrNoSeatsAvailable, 16007, 0},
	{service.ErrPriorGradeSubject, 16008, 0},
	{service.ErrPriorGradeDuplicate, 16009, 0},

	// ── 成绩 ──
	{service.ErrStudentNotFound, 17001, 0},
	{service.ErrProfessorNotFound, 17002, 0},
	{service.ErrPeriodYearMismatch, 17003, 0},
	{service.ErrStudentCourseMismatch, 17004, 0},
	{service.ErrStudentInactive, 17005, 0},
	{rules.ErrScoreMalformed, 17006, 0},
	{rules.ErrScoreOutOfRange, 17007, 0},

	// ── 教职工 ──
	{service.ErrProfessorEmailExists, 18001, 0},

	// ── 学术配置 ──
	{rules.ErrUnknownTieBreak, 19001, 0},
	{rules.ErrWeightsInvalid, 19002, 0},

	// ── 导出 ──
	{service.ErrExportNoRows, 20001, 0},

	// ── 教室、班级与课表 ──
	{service.ErrRoomNotFound, 21101, 0},
	{service.ErrRoomNameExists, 21102, 0},
	{service.ErrRoomInactive, 21103, 0},
	{service.ErrRoomInUse, 21104, 0},
	{service.ErrClassNotFound, 21201, 0},
	{service.ErrClassNameExists, 21202, 0},
	{service.ErrClassInactive, 21203, 0},
	{service.ErrClassSubjectCourse, 21204, 0},
	{service.ErrClassSubjectNotFound, 21205, 0},
	{service.ErrClassSubjectInUse, 21206, 0},
	{service.ErrProfessorInactive, 21207, 0},
	{service.ErrLessonNotFound, 21301, 0},
	{service.ErrLessonClash, 21302, 0},
	{service.ErrLessonProfessorRequired, 21303, 0},
	{rules.ErrClockInvalid, 21304, 0},
	{rules.ErrLessonTimeRange, 21305, 0},
	{rules.ErrWeekdayInvalid, 21306, 0},

	// ── 订阅 ──
	{service.ErrSubscriptionNotFound, 22001, 0},
	{service.ErrSubscriptionExists, 22002, 0},
	{service.ErrPaymentNotFound, 22003, 0},
	{service.ErrPaymentAmountInvalid, 22004, 0},
	{service.ErrPaymentAlreadyHandled, 22005, 0},
	{rules.ErrUnknownPlan, 22006, 0},

	// ── 站内通知 ──
	{service.ErrNoticeNotFound, 23001, 0},
	{service.ErrNoticeRecipientsRequired, 23002, 0},
	{service.ErrNoticeRecipientNotFound, 23003, 0},
}

var categories = []error{
	apperrors.ErrValidation,
	apperrors.ErrPolicyViolation,
	apperrors.ErrNotFound,
	apperrors.ErrConflict,
	apperrors.ErrConfigurationMissing,
}

// handleError 模块错误优先映射业务码，未登记的错误按分类兜底
func handleError(c *gin.Context, err error) {
	for _, m := range errorCodes {
		if !errors.Is(err, m.err) {
			continue
		}
		status := m.status
		if status == 0 {
			status = statusOf(err)
		}
		msg := publicMessage(m.err)
		if detail := publicMessage(err); detail != msg {
			response.ErrorWithDetails(c, status, m.code, msg, detail)
			return
		}
		response.Error(c, status, m.code, msg)
		return
	}

	switch status := statusOf(err); status {
	case http.StatusBadRequest:
		response.BadRequest(c, 10001, publicMessage(err))
	case http.StatusNotFound:
		response.NotFound(c, 10006, publicMessage(err))
	case http.StatusConflict:
		response.Conflict(c, 10007, publicMessage(err))
	case http.StatusUnprocessableEntity:
		response.Unprocessable(c, 10008, publicMessage(err))
	case http.StatusServiceUnavailable:
		response.ServiceUnavailable(c, 10010, publicMessage(err))
	default:
		// 交给日志中间件记录
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// statusOf 错误分类 → HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrOptimisticLock):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrPolicyViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrConfigurationMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage 去掉分类前缀，只保留面向用户的描述
func publicMessage(err error) string {
	msg := err.Error()
	for _, cat := range categories {
		msg = strings.TrimPrefix(msg, cat.Error()+": ")
	}
	return msg
}
