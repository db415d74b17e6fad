package dto

// UpdatePreferenceRequest 更新用户偏好请求
type UpdatePreferenceRequest struct {
	ReminderEnabled *bool `json:"reminder_enabled"`
}

// PreferenceResponse 用户偏好响应
type PreferenceResponse struct {
	CurrentTimetableID *string `json:"current_timetable_id"`
	ReminderEnabled    bool    `json:"reminder_enabled"`
}
