package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// SchedulingHandler 教室、班级与课表 HTTP 处理器
type SchedulingHandler struct {
	roomSvc      service.RoomService
	classSvc     service.ClassService
	timetableSvc service.TimetableService
}

// NewSchedulingHandler 创建 SchedulingHandler
func NewSchedulingHandler(roomSvc service.RoomService, classSvc service.ClassService, timetableSvc service.TimetableService) *SchedulingHandler {
	return &SchedulingHandler{roomSvc: roomSvc, classSvc: classSvc, timetableSvc: timetableSvc}
}

// ────────────────────── 教室 ──────────────────────

// CreateRoom 创建教室
// POST /api/v1/rooms
func (h *SchedulingHandler) CreateRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, room)
}

// ListRooms 教室列表
// GET /api/v1/rooms?include_inactive=
func (h *SchedulingHandler) ListRooms(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.roomSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// GetRoom 教室详情
// GET /api/v1/rooms/:id
func (h *SchedulingHandler) GetRoom(c *gin.Context) {
	room, err := h.roomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, room)
}

// UpdateRoom 更新教室
// PUT /api/v1/rooms/:id
func (h *SchedulingHandler) UpdateRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, room)
}

// DeleteRoom 删除教室
// DELETE /api/v1/rooms/:id
func (h *SchedulingHandler) DeleteRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// RoomTimetable 教室周课表
// GET /api/v1/rooms/:id/timetable?period_id=
func (h *SchedulingHandler) RoomTimetable(c *gin.Context) {
	var req dto.TimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.timetableSvc.RoomTimetable(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, tt)
}

// ────────────────────── 班级 ──────────────────────

// CreateClass 创建班级
// POST /api/v1/classes
func (h *SchedulingHandler) CreateClass(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, class)
}

// ListClasses 班级列表
// GET /api/v1/classes?course_id=&year_id=&curricular_year=
func (h *SchedulingHandler) ListClasses(c *gin.Context) {
	var req dto.ClassListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.classSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// GetClass 班级详情
// GET /api/v1/classes/:id
func (h *SchedulingHandler) GetClass(c *gin.Context) {
	class, err := h.classSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, class)
}

// UpdateClass 更新班级
// PUT /api/v1/classes/:id
func (h *SchedulingHandler) UpdateClass(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	class, err := h.classSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, class)
}

// AssignClassSubject 为班级开设科目或更换任课教师
// PUT /api/v1/classes/:id/subjects
func (h *SchedulingHandler) AssignClassSubject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignClassSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cs, err := h.classSvc.AssignSubject(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, cs)
}

// ListClassSubjects 班级开设的科目
// GET /api/v1/classes/:id/subjects
func (h *SchedulingHandler) ListClassSubjects(c *gin.Context) {
	list, err := h.classSvc.ListSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// RemoveClassSubject 取消班级科目
// DELETE /api/v1/classes/:id/subjects/:subject_id
func (h *SchedulingHandler) RemoveClassSubject(c *gin.Context) {
	if err := h.classSvc.RemoveSubject(c.Request.Context(), c.Param("id"), c.Param("subject_id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ClassTimetable 班级周课表
// GET /api/v1/classes/:id/timetable?period_id=
func (h *SchedulingHandler) ClassTimetable(c *gin.Context) {
	var req dto.TimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.timetableSvc.ClassTimetable(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, tt)
}

// ────────────────────── 课节 ──────────────────────

// CreateLesson 排课
// POST /api/v1/lessons
func (h *SchedulingHandler) CreateLesson(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lesson, err := h.timetableSvc.CreateLesson(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, lesson)
}

// GetLesson 课节详情
// GET /api/v1/lessons/:id
func (h *SchedulingHandler) GetLesson(c *gin.Context) {
	lesson, err := h.timetableSvc.GetLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, lesson)
}

// UpdateLesson 调课（需带 version）
// PUT /api/v1/lessons/:id
func (h *SchedulingHandler) UpdateLesson(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lesson, err := h.timetableSvc.UpdateLesson(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, lesson)
}

// DeleteLesson 删除课节
// DELETE /api/v1/lessons/:id
func (h *SchedulingHandler) DeleteLesson(c *gin.Context) {
	if err := h.timetableSvc.DeleteLesson(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ProfessorTimetable 教师周课表
// GET /api/v1/professors/:id/timetable?period_id=
func (h *SchedulingHandler) ProfessorTimetable(c *gin.Context) {
	var req dto.TimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.timetableSvc.ProfessorTimetable(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, tt)
}
