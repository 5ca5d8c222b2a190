package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAdmissionList 导出课程录取名单
// GET /api/v1/export/admissions?course_id=xxx&approved_only=true
func (h *ExportHandler) ExportAdmissionList(c *gin.Context) {
	courseID := c.Query("course_id")
	if courseID == "" {
		response.BadRequest(c, 10001, "course_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportAdmissionList(c.Request.Context(), courseID, c.Query("approved_only") == "true")
	if err != nil {
		handleError(c, err)
		return
	}

	response.Attachment(c, response.ContentTypeXLSX, filename, buf.Bytes())
}

// ExportGradeSheet 导出科目成绩单
// GET /api/v1/export/grades?subject_id=xxx&period_id=yyy
func (h *ExportHandler) ExportGradeSheet(c *gin.Context) {
	subjectID, periodID := c.Query("subject_id"), c.Query("period_id")
	if subjectID == "" || periodID == "" {
		response.BadRequest(c, 10001, "subject_id 与 period_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportGradeSheet(c.Request.Context(), subjectID, periodID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Attachment(c, response.ContentTypeXLSX, filename, buf.Bytes())
}
