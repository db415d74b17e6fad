package service

import "context"

// Notifier 课表变更副作用出口。
// Service 层只负责在成功变更后触发，提醒重排与小组件刷新的
// 具体行为由实现方（internal/notify）决定。
type Notifier interface {
	// TimetableChanged 某课表的节次、课程或当前状态发生了变化。
	// 实现方仅在该课表是用户偏好的当前课表时重排上课提醒。
	TimetableChanged(ctx context.Context, timetableID string)
	// WidgetRefresh 重建小组件内容。任何成功或部分成功的导入/编辑后触发。
	WidgetRefresh(ctx context.Context)
}

// NopNotifier 空实现
type NopNotifier struct{}

func (NopNotifier) TimetableChanged(context.Context, string) {}
func (NopNotifier) WidgetRefresh(context.Context)            {}
