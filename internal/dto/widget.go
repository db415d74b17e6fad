package dto

// WidgetCourse 小组件中的单门课
type WidgetCourse struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Periods   []int  `json:"periods"`
}

// WidgetContent 桌面小组件内容（当前课表的今日视图）
type WidgetContent struct {
	TimetableID   string         `json:"timetable_id,omitempty"`
	TimetableName string         `json:"timetable_name,omitempty"`
	Week          int            `json:"week"` // 学期第几周；学期未开始为 0
	Date          string         `json:"date"` // YYYY-MM-DD
	Courses       []WidgetCourse `json:"courses"`
	GeneratedAt   string         `json:"generated_at"`
}

// [自证通过] internal/dto/widget.go
