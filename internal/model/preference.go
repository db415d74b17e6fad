package model

import "time"

// UserPreference 用户偏好表 — 对应 user_preferences（单行，preference_id 恒为 1）
type UserPreference struct {
	PreferenceID       int       `gorm:"primaryKey"            json:"preference_id"`
	CurrentTimetableID *string   `gorm:"type:uuid"             json:"current_timetable_id,omitempty"` // 当前课表；提醒只为它计算
	ReminderEnabled    bool      `gorm:"not null;default:true" json:"reminder_enabled"`
	UpdatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (UserPreference) TableName() string { return "user_preferences" }
