package parser

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/extrame/xls"
)

// ── 共享的表格扫描辅助 ──
//
// 各解析器统一先把文档展开为字符串单元格网格，再做行列启发式扫描，
// 网格层逻辑与文件格式解耦，便于直接构造网格做测试。

var (
	errEmptyWorkbook   = errors.New("工作簿为空或无法读取")
	errNoWeekdayHeader = errors.New("未定位到星期表头行")
	errNoCourses       = errors.New("未解析出任何课程")
	errMissingClock    = errors.New("节次行缺少起止时刻")
)

// xlsGrid 读取二进制 XLS 文档第一张工作表为字符串网格
func xlsGrid(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, errEmptyWorkbook
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// findWeekdayHeader 定位星期表头行：取第一个含至少两个星期标签的行，
// 返回行号与 列号→星期几 的映射。标题行通常只含课表名称，不会误中。
func findWeekdayHeader(grid [][]string) (headerRow int, dayCols map[int]int, ok bool) {
	for r, row := range grid {
		cols := make(map[int]int)
		for c, cell := range row {
			if day := WeekdayOf(cell); day > 0 {
				cols[c] = day
			}
		}
		if len(cols) >= 2 {
			return r, cols, true
		}
	}
	return 0, nil, false
}

// cellLines 拆分单元格文本为去除空白的非空行
func cellLines(cell string) []string {
	var lines []string
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// cellAt 越界安全取格
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// sortedCols 星期列号升序列表，保证扫描顺序确定
func sortedCols(dayCols map[int]int) []int {
	cols := make([]int, 0, len(dayCols))
	for c := range dayCols {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}
