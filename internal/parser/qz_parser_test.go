package parser

import (
	"reflect"
	"testing"
)

// 构造强智版式网格：标题行 + 星期表头 + 节次数据行
func qzTestGrid() [][]string {
	return [][]string{
		{"2025-2026学年第一学期课程表"},
		{"节次", "星期一", "星期二", "星期三", "星期四", "星期五"},
		{"第1-2节", "高等数学\n张三\n1-16周\n主楼A101", "", "大学英语\n李四\n1-8周\n外语楼302", "", ""},
		{"第3-4节", "", "程序设计\n王五\n2-16双周\n机房B203", "", "", "高等数学\n张三\n1-16周\n主楼A101"},
		{"第5-6节", "", "", "", "", ""},
	}
}

func TestParseQzGrid_Success(t *testing.T) {
	result, err := parseQzGrid(qzTestGrid())
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result.TimeSlots) != 0 {
		t.Errorf("强智版式不含节次时间，TimeSlots 应为空，实际 %d", len(result.TimeSlots))
	}
	if len(result.Courses) != 4 {
		t.Fatalf("期望 4 门课，实际 %d", len(result.Courses))
	}

	first := result.Courses[0]
	if first.Name != "高等数学" || first.Teacher != "张三" || first.Location != "主楼A101" {
		t.Errorf("首门课字段不符: %+v", first)
	}
	if first.DayOfWeek != 1 {
		t.Errorf("期望 DayOfWeek=1, 实际 %d", first.DayOfWeek)
	}
	if !reflect.DeepEqual(first.Periods, []int{1, 2}) {
		t.Errorf("期望节次 {1,2}, 实际 %v", first.Periods)
	}
	if len(first.Weeks) != 16 || first.Weeks[0] != 1 || first.Weeks[15] != 16 {
		t.Errorf("期望周次 1..16, 实际 %v", first.Weeks)
	}
}

func TestParseQzGrid_DoubleWeekCourse(t *testing.T) {
	result, err := parseQzGrid(qzTestGrid())
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	for _, c := range result.Courses {
		if c.Name == "程序设计" {
			if !reflect.DeepEqual(c.Weeks, []int{2, 4, 6, 8, 10, 12, 14, 16}) {
				t.Errorf("双周课程周次不符: %v", c.Weeks)
			}
			return
		}
	}
	t.Error("未找到程序设计课程")
}

func TestParseQzGrid_NoWeekdayHeader(t *testing.T) {
	grid := [][]string{
		{"课表"},
		{"第1-2节", "高等数学\n张三\n1-16周\n主楼A101"},
	}
	if _, err := parseQzGrid(grid); err == nil {
		t.Error("缺少星期表头时应返回失败")
	}
}

func TestParseQzGrid_NoCourses(t *testing.T) {
	grid := [][]string{
		{"节次", "星期一", "星期二"},
		{"第1-2节", "", ""},
	}
	if _, err := parseQzGrid(grid); err == nil {
		t.Error("零课程时应返回失败而非半成品结果")
	}
}

func TestParseQzGrid_MultipleCoursesPerCell(t *testing.T) {
	grid := [][]string{
		{"节次", "星期一", "星期二"},
		{"第1-2节", "高等数学\n张三\n1-8周\n主楼A101\n\n线性代数\n赵六\n9-16周\n主楼A101", ""},
	}
	result, err := parseQzGrid(grid)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result.Courses) != 2 {
		t.Fatalf("空行分隔的两门课都应解析，实际 %d", len(result.Courses))
	}
}

// 同 (name, teacher, weeks, location, weekDay) 不同节次的两格必须合并为一条
func TestParseQzGrid_MergeInvariant(t *testing.T) {
	grid := [][]string{
		{"节次", "星期一", "星期二"},
		{"第1-2节", "高等数学\n张三\n1-16周\n主楼A101", ""},
		{"第3-4节", "高等数学\n张三\n1-16周\n主楼A101", ""},
	}
	result, err := parseQzGrid(grid)
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if len(result.Courses) != 1 {
		t.Fatalf("同键课程应合并为一条，实际 %d 条", len(result.Courses))
	}
	if !reflect.DeepEqual(result.Courses[0].Periods, []int{1, 2, 3, 4}) {
		t.Errorf("节次应取并集 {1,2,3,4}, 实际 %v", result.Courses[0].Periods)
	}
}
