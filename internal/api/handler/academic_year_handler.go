package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// AcademicYearHandler 学年与学期 HTTP 处理器
type AcademicYearHandler struct {
	yearSvc   service.AcademicYearService
	periodSvc service.LecturePeriodService
}

// NewAcademicYearHandler 创建 AcademicYearHandler
func NewAcademicYearHandler(yearSvc service.AcademicYearService, periodSvc service.LecturePeriodService) *AcademicYearHandler {
	return &AcademicYearHandler{yearSvc: yearSvc, periodSvc: periodSvc}
}

// ────────────────────── 学年 ──────────────────────

// Create 创建学年
// POST /api/v1/academic-years
func (h *AcademicYearHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	year, err := h.yearSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, year)
}

// List 学年列表
// GET /api/v1/academic-years
func (h *AcademicYearHandler) List(c *gin.Context) {
	years, err := h.yearSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, years)
}

// GetCurrent 当前学年
// GET /api/v1/academic-years/current
func (h *AcademicYearHandler) GetCurrent(c *gin.Context) {
	year, err := h.yearSvc.GetCurrent(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, year)
}

// Get 学年详情
// GET /api/v1/academic-years/:id
func (h *AcademicYearHandler) Get(c *gin.Context) {
	year, err := h.yearSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, year)
}

// Update 更新学年（需携带 version）
// PUT /api/v1/academic-years/:id
func (h *AcademicYearHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	year, err := h.yearSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, year)
}

// SetCurrent 设为当前学年
// PUT /api/v1/academic-years/:id/current
func (h *AcademicYearHandler) SetCurrent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, err := h.yearSvc.SetCurrent(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, year)
}

// Delete 删除学年
// DELETE /api/v1/academic-years/:id
func (h *AcademicYearHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.yearSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// EnrollmentsOpen 今天是否处于该学年的报名期
// GET /api/v1/academic-years/:id/enrollments-open
func (h *AcademicYearHandler) EnrollmentsOpen(c *gin.Context) {
	open, err := h.yearSvc.EnrollmentsOpen(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"open": open})
}

// ────────────────────── 学期 ──────────────────────

// CreatePeriod 在学年下创建学期
// POST /api/v1/academic-years/:id/periods
func (h *AcademicYearHandler) CreatePeriod(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLecturePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	period, err := h.periodSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, period)
}

// ListPeriods 学年下的学期列表
// GET /api/v1/academic-years/:id/periods
func (h *AcademicYearHandler) ListPeriods(c *gin.Context) {
	periods, err := h.periodSvc.ListByYear(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, periods)
}

// GetCurrentPeriod 学年的当前学期
// GET /api/v1/academic-years/:id/periods/current
func (h *AcademicYearHandler) GetCurrentPeriod(c *gin.Context) {
	period, err := h.periodSvc.GetCurrent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, period)
}

// GetPeriod 学期详情
// GET /api/v1/periods/:id
func (h *AcademicYearHandler) GetPeriod(c *gin.Context) {
	period, err := h.periodSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, period)
}

// UpdatePeriod 更新学期
// PUT /api/v1/periods/:id
func (h *AcademicYearHandler) UpdatePeriod(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLecturePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	period, err := h.periodSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, period)
}

// SetCurrentPeriod 设为所在学年的当前学期
// PUT /api/v1/periods/:id/current
func (h *AcademicYearHandler) SetCurrentPeriod(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.periodSvc.SetCurrent(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, period)
}
