package dto

// ImportShareRequest 分享口令导入请求
type ImportShareRequest struct {
	Key string `json:"key" binding:"required"`
}

// SkippedItem 批量导入中被跳过的条目及原因
type SkippedItem struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportReport 导入结果报告。
// 批量导入为尽力而为：单条校验/冲突失败只计入 Skipped，不影响整体成功。
type ImportReport struct {
	TimetableID     string        `json:"timetable_id"`
	TimetableName   string        `json:"timetable_name"`
	LessonTimeCount int           `json:"lesson_time_count"`
	CourseCount     int           `json:"course_count"`
	Skipped         []SkippedItem `json:"skipped,omitempty"`
}
