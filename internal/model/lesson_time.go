package model

// LessonTime 节次时间表 — 对应 lesson_times
//
// period 为派生字段：同一课表的所有行按 start_time 升序重排后取 1-based 序号，
// 每次增删改后由 Service 层统一重编号。
type LessonTime struct {
	LessonTimeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lesson_time_id"`
	TimetableID  string `gorm:"type:uuid;not null"                             json:"timetable_id"`
	Period       int    `gorm:"type:smallint;not null"                         json:"period"`
	StartTime    string `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime      string `gorm:"type:varchar(5);not null"                       json:"end_time"`   // HH:MM
	BaseModel
}

// TableName 指定表名
func (LessonTime) TableName() string { return "lesson_times" }
