package dto

// UpsertLessonTimeRequest 新增/修改节次时间请求。
// 不含 period 字段：节次号由服务端按开始时刻排序后派生。
type UpsertLessonTimeRequest struct {
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	EndTime   string `json:"end_time" binding:"required"`   // HH:MM
}

// LessonTimeResponse 节次时间响应
type LessonTimeResponse struct {
	ID          string `json:"id"`
	TimetableID string `json:"timetable_id"`
	Period      int    `json:"period"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}
