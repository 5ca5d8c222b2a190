package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// CalendarHandler 校历事件 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// CreateEvent 在学年下创建事件
// POST /api/v1/academic-years/:id/events
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.calendarSvc.CreateEvent(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, event)
}

// ListEvents 学年校历
// GET /api/v1/academic-years/:id/events
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	events, err := h.calendarSvc.ListEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, events)
}

// GetEvent 事件详情
// GET /api/v1/events/:id
func (h *CalendarHandler) GetEvent(c *gin.Context) {
	event, err := h.calendarSvc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, event)
}

// UpdateEvent 更新事件
// PUT /api/v1/events/:id
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.calendarSvc.UpdateEvent(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除事件
// DELETE /api/v1/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.calendarSvc.DeleteEvent(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// IsOccurring 事件今天是否进行中
// GET /api/v1/events/:id/occurring
func (h *CalendarHandler) IsOccurring(c *gin.Context) {
	occurring, err := h.calendarSvc.IsOccurring(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"occurring": occurring})
}

// ExportICS 导出学年校历
// GET /api/v1/academic-years/:id/calendar.ics
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	data, filename, err := h.calendarSvc.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Attachment(c, response.ContentTypeICS, filename, data)
}

// ImportICS 导入 ICS 文件为学年事件
// POST /api/v1/academic-years/:id/calendar.ics
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, field="file"
//   - 原始内容: Content-Type: text/calendar
func (h *CalendarHandler) ImportICS(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if bodyTooLarge(c, err) {
		return
	}
	if err == nil {
		defer file.Close()
		result, err := h.calendarSvc.ImportICS(c.Request.Context(), c.Param("id"), file, callerID)
		if err != nil {
			handleError(c, err)
			return
		}
		response.Created(c, result)
		return
	}

	if !strings.HasPrefix(c.ContentType(), "text/calendar") {
		response.BadRequest(c, 13000, "请上传 ICS 文件")
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if bodyTooLarge(c, err) {
		return
	}
	result, err := h.calendarSvc.ImportICS(c.Request.Context(), c.Param("id"), bytes.NewReader(raw), callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, result)
}

// bodyTooLarge 请求体超限时只登记错误，由 BodyLimit 中间件统一返回 413
func bodyTooLarge(c *gin.Context, err error) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	_ = c.Error(err)
	return true
}
