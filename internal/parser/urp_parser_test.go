package parser

import (
	"reflect"
	"testing"
)

func urpTestGrid() [][]string {
	return [][]string{
		{"课程表", ""},
		{"节次", "星期一", "星期二"},
		{"第1节\n08:00-08:45", "高等数学/张三/主楼A101/1-16周", ""},
		{"第2节\n08:55-09:40", "高等数学/张三/主楼A101/1-16周", "大学英语/李四/外语楼302/1-8周"},
		{"第3节\n10:10-10:55", "", ""},
	}
}

func TestParseUrpGrid_TimeSlots(t *testing.T) {
	result, err := parseUrpGrid(urpTestGrid())
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	want := []TimeSlot{
		{Start: "08:00", End: "08:45"},
		{Start: "08:55", End: "09:40"},
		{Start: "10:10", End: "10:55"},
	}
	if !reflect.DeepEqual(result.TimeSlots, want) {
		t.Errorf("节次时间不符: %v", result.TimeSlots)
	}
}

// 同一门课出现在连续两个节次行，应并为一条、节次取并集
func TestParseUrpGrid_MergeAcrossRows(t *testing.T) {
	result, err := parseUrpGrid(urpTestGrid())
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result.Courses) != 2 {
		t.Fatalf("期望 2 门课，实际 %d", len(result.Courses))
	}
	math := result.Courses[0]
	if math.Name != "高等数学" {
		t.Fatalf("首门课应为高等数学: %+v", math)
	}
	if !reflect.DeepEqual(math.Periods, []int{1, 2}) {
		t.Errorf("跨行同课节次应合并为 {1,2}: %v", math.Periods)
	}
}

func TestParseUrpGrid_MissingClockFails(t *testing.T) {
	grid := [][]string{
		{"节次", "星期一", "星期二"},
		{"第1节", "高等数学/张三/主楼A101/1-16周", ""}, // 节次行缺少时刻
	}
	if _, err := parseUrpGrid(grid); err == nil {
		t.Error("TimeSlot 缺少起止时刻时必须整体失败")
	}
}

func TestParseUrpGrid_SemicolonRecords(t *testing.T) {
	grid := [][]string{
		{"节次", "星期一", "星期二"},
		{"第1节\n08:00-08:45", "高等数学/张三/主楼A101/1-8周；线性代数/赵六/主楼B202/9-16周", ""},
	}
	result, err := parseUrpGrid(grid)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result.Courses) != 2 {
		t.Errorf("分号分隔的两条记录都应解析，实际 %d", len(result.Courses))
	}
}
