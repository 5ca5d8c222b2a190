package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// SubjectHandler 科目 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// Create 在课程下创建科目
// POST /api/v1/courses/:id/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Create(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, subject)
}

// ListByCourse 课程的科目列表
// GET /api/v1/courses/:id/subjects
func (h *SubjectHandler) ListByCourse(c *gin.Context) {
	subjects, err := h.subjectSvc.ListByCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, subjects)
}

// Get 科目详情
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.subjectSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, subject)
}

// Update 更新科目
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, subject)
}

// Delete 删除科目（已有成绩时拒绝）
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// AddPrerequisite 添加先修科目
// POST /api/v1/subjects/:id/prerequisites
func (h *SubjectHandler) AddPrerequisite(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddSubjectPrerequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.AddPrerequisite(c.Request.Context(), c.Param("id"), req.RequiredSubjectID, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, subject)
}

// RemovePrerequisite 移除先修科目
// DELETE /api/v1/subjects/:id/prerequisites/:requiredId
func (h *SubjectHandler) RemovePrerequisite(c *gin.Context) {
	if err := h.subjectSvc.RemovePrerequisite(c.Request.Context(), c.Param("id"), c.Param("requiredId")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}
