package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// CurriculumHandler 学历层次、课程与课程方案 HTTP 处理器
type CurriculumHandler struct {
	curriculumSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(curriculumSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumSvc: curriculumSvc}
}

// ────────────────────── 学历层次 ──────────────────────

// CreateLevel 创建学历层次
// POST /api/v1/levels
func (h *CurriculumHandler) CreateLevel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AcademicLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	level, err := h.curriculumSvc.CreateLevel(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, level)
}

// ListLevels 学历层次列表
// GET /api/v1/levels
func (h *CurriculumHandler) ListLevels(c *gin.Context) {
	levels, err := h.curriculumSvc.ListLevels(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, levels)
}

// GetLevel 学历层次详情
// GET /api/v1/levels/:id
func (h *CurriculumHandler) GetLevel(c *gin.Context) {
	level, err := h.curriculumSvc.GetLevel(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, level)
}

// UpdateLevel 更新学历层次
// PUT /api/v1/levels/:id
func (h *CurriculumHandler) UpdateLevel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AcademicLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	level, err := h.curriculumSvc.UpdateLevel(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, level)
}

// ────────────────────── 课程 ──────────────────────

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CurriculumHandler) CreateCourse(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.curriculumSvc.CreateCourse(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, course)
}

// ListCourses 课程列表
// GET /api/v1/courses?active=true
func (h *CurriculumHandler) ListCourses(c *gin.Context) {
	courses, err := h.curriculumSvc.ListCourses(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, courses)
}

// GetCourse 课程详情
// GET /api/v1/courses/:id
func (h *CurriculumHandler) GetCourse(c *gin.Context) {
	course, err := h.curriculumSvc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// UpdateCourse 更新课程
// PUT /api/v1/courses/:id
func (h *CurriculumHandler) UpdateCourse(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.curriculumSvc.UpdateCourse(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// ToggleActive 启用/停用课程
// PUT /api/v1/courses/:id/toggle-active
func (h *CurriculumHandler) ToggleActive(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.curriculumSvc.ToggleActive(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// AvailableSeats 当前学年剩余名额
// GET /api/v1/courses/:id/seats
func (h *CurriculumHandler) AvailableSeats(c *gin.Context) {
	seats, err := h.curriculumSvc.AvailableSeats(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"available_seats": seats})
}

// SetPrerequisites 整体替换课程入学先修要求
// PUT /api/v1/courses/:id/prerequisites
func (h *CurriculumHandler) SetPrerequisites(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetPrerequisitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, err := h.curriculumSvc.SetPrerequisites(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, items)
}

// ListPrerequisites 课程入学先修要求
// GET /api/v1/courses/:id/prerequisites
func (h *CurriculumHandler) ListPrerequisites(c *gin.Context) {
	items, err := h.curriculumSvc.ListPrerequisites(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, items)
}

// ────────────────────── 课程方案 ──────────────────────

// CreateGrade 创建课程方案
// POST /api/v1/courses/:id/grades
func (h *CurriculumHandler) CreateGrade(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CurriculumGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.curriculumSvc.CreateGrade(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, grade)
}

// ListGrades 课程的全部方案
// GET /api/v1/courses/:id/grades
func (h *CurriculumHandler) ListGrades(c *gin.Context) {
	grades, err := h.curriculumSvc.ListGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grades)
}

// GetGrade 方案详情
// GET /api/v1/grades/:id
func (h *CurriculumHandler) GetGrade(c *gin.Context) {
	grade, err := h.curriculumSvc.GetGrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// UpdateGrade 更新方案名称与评分策略覆盖
// PUT /api/v1/grades/:id
func (h *CurriculumHandler) UpdateGrade(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCurriculumGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	grade, err := h.curriculumSvc.UpdateGradePolicy(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// ActivateGrade 启用方案
// PUT /api/v1/grades/:id/activate
func (h *CurriculumHandler) ActivateGrade(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.curriculumSvc.ActivateGrade(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}
