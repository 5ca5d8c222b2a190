package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// GradingHandler 成绩 HTTP 处理器
type GradingHandler struct {
	gradingSvc service.GradingService
}

// NewGradingHandler 创建 GradingHandler
func NewGradingHandler(gradingSvc service.GradingService) *GradingHandler {
	return &GradingHandler{gradingSvc: gradingSvc}
}

// RecordGrades 批量录入成绩
// PUT /api/v1/grading/records
func (h *GradingHandler) RecordGrades(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecordGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.gradingSvc.RecordGrades(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// EvaluateStudent 学生各科判定
// GET /api/v1/students/:id/evaluation?year_id=
func (h *GradingHandler) EvaluateStudent(c *gin.Context) {
	result, err := h.gradingSvc.EvaluateStudent(c.Request.Context(), c.Param("id"), c.Query("year_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckProgression 学生能否升入下一年级
// GET /api/v1/students/:id/progression
func (h *GradingHandler) CheckProgression(c *gin.Context) {
	result, err := h.gradingSvc.CheckProgression(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
