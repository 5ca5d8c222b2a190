package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// EnrollmentHandler 报名、录取与注册 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// ────────────────────── 公开接口 ──────────────────────

// Submit 提交报名
// POST /api/v1/public/enrollments
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	var req dto.SubmitEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	enrollment, err := h.enrollmentSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// Status 按报名号查询结果
// GET /api/v1/public/enrollments/:number
func (h *EnrollmentHandler) Status(c *gin.Context) {
	status, err := h.enrollmentSvc.GetStatus(c.Request.Context(), c.Param("number"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, status)
}

// ────────────────────── 报名管理 ──────────────────────

// List 报名列表
// GET /api/v1/enrollments?course_id=&year_id=&approved_only=&keyword=
func (h *EnrollmentHandler) List(c *gin.Context) {
	var req dto.EnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.enrollmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 报名详情
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, err := h.enrollmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// RecordTestScores 批量录入入学考试成绩
// PUT /api/v1/enrollments/test-scores
func (h *EnrollmentHandler) RecordTestScores(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecordTestScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.enrollmentSvc.RecordTestScores(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Eligibility 先修资格判定
// GET /api/v1/enrollments/:id/eligibility
func (h *EnrollmentHandler) Eligibility(c *gin.Context) {
	result, err := h.enrollmentSvc.Eligibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpsertPriorGrade 录入或覆盖一门既往成绩
// PUT /api/v1/enrollments/:id/prior-grades
func (h *EnrollmentHandler) UpsertPriorGrade(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PriorGradeItem
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.enrollmentSvc.UpsertPriorGrade(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// ListPriorGrades 既往成绩列表
// GET /api/v1/enrollments/:id/prior-grades
func (h *EnrollmentHandler) ListPriorGrades(c *gin.Context) {
	grades, err := h.enrollmentSvc.ListPriorGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grades)
}

// Matriculate 注册为学生
// POST /api/v1/enrollments/:id/matriculation
func (h *EnrollmentHandler) Matriculate(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Matriculate(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// CancelMatriculation 取消注册
// DELETE /api/v1/enrollments/:id/matriculation
func (h *EnrollmentHandler) CancelMatriculation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.CancelMatriculation(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 录取 ──────────────────────

// RunAdmission 按课程执行录取排名
// POST /api/v1/courses/:id/admissions
func (h *EnrollmentHandler) RunAdmission(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RunAdmissionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	result, err := h.enrollmentSvc.RunAdmission(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAdmissionRuns 录取执行记录（最新在前）
// GET /api/v1/courses/:id/admissions
func (h *EnrollmentHandler) ListAdmissionRuns(c *gin.Context) {
	runs, err := h.enrollmentSvc.ListAdmissionRuns(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, runs)
}
