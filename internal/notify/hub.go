// Package notify 实现课表变更的两类副作用：
// 上课提醒定时器的重排与桌面小组件内容的重建。
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/dto"
	"github.com/binbin323/starschedule-server/internal/model"
	"github.com/binbin323/starschedule-server/internal/repository"
	"github.com/binbin323/starschedule-server/pkg/redis"
)

// reminderHorizonDays 往后最多扫描的天数，超出则视为无课可提醒
const reminderHorizonDays = 14

// Hub 副作用汇聚点，实现 service.Notifier。
// 提醒定时器全局只有一个，永远指向当前课表的下一次上课；
// 小组件内容以 JSON 存入 Redis，由 /widget 接口读取。
type Hub struct {
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil，小组件退化为每次现场构建
	logger *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	// now 便于测试注入固定时钟
	now func() time.Time
}

// NewHub 创建副作用汇聚点
func NewHub(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{repo: repo, rdb: rdb, logger: logger, now: time.Now}
}

// ────────────────────── TimetableChanged ──────────────────────

// TimetableChanged 课表内容或当前状态变化后的提醒重排入口。
// 仅当变化的课表是用户偏好的当前课表时才有动作。
func (h *Hub) TimetableChanged(ctx context.Context, timetableID string) {
	pref, err := h.repo.Preference.Get(ctx)
	if err != nil {
		h.logger.Error("读取用户偏好失败", zap.Error(err))
		return
	}
	if pref.CurrentTimetableID == nil || *pref.CurrentTimetableID != timetableID {
		return
	}
	h.reschedule(ctx, timetableID, pref.ReminderEnabled)
}

// reschedule 停掉旧定时器并按最新课表数据安排下一次提醒
func (h *Hub) reschedule(ctx context.Context, timetableID string, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	if !enabled {
		h.logger.Info("上课提醒已关闭，定时器取消")
		return
	}

	at, courseName, err := h.nextReminder(ctx, timetableID)
	if err != nil {
		if !errors.Is(err, errNoUpcoming) {
			h.logger.Error("计算下一次提醒失败", zap.Error(err))
		}
		return
	}

	h.logger.Info("已安排上课提醒",
		zap.String("course", courseName),
		zap.Time("at", at),
	)
	h.timer = time.AfterFunc(time.Until(at), func() {
		h.logger.Info("上课提醒", zap.String("course", courseName))
		// 触发后重新计算下一次
		h.TimetableChanged(context.Background(), timetableID)
	})
}

// Stop 停掉提醒定时器（进程退出用）
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

var errNoUpcoming = errors.New("近期没有可提醒的课程")

// nextReminder 求下一次提醒的触发时刻与课程名。
// 从今天起逐日往后扫：按开学日期算出该日的周次与星期几，
// 取当天匹配课程的最早节次开始时刻，减去提前量即触发时刻。
func (h *Hub) nextReminder(ctx context.Context, timetableID string) (time.Time, string, error) {
	tt, err := h.repo.Timetable.GetDetail(ctx, timetableID)
	if err != nil {
		return time.Time{}, "", err
	}

	startByPeriod := make(map[int]string, len(tt.LessonTimes))
	for i := range tt.LessonTimes {
		startByPeriod[tt.LessonTimes[i].Period] = tt.LessonTimes[i].StartTime
	}
	lead := time.Duration(tt.ReminderLeadMin) * time.Minute

	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for offset := 0; offset < reminderHorizonDays; offset++ {
		date := today.AddDate(0, 0, offset)
		week := weekOfSemester(tt.StartDate, date)
		if week < 1 {
			continue
		}
		day := int(date.Weekday()+6)%7 + 1 // 周一=1 … 周日=7

		var best time.Time
		var bestName string
		for i := range tt.Courses {
			c := &tt.Courses[i]
			if c.DayOfWeek != day || !c.Weeks.Contains(week) || len(c.Periods) == 0 {
				continue
			}
			clock, ok := startByPeriod[minOf(c.Periods)]
			if !ok {
				continue
			}
			classStart, err := clockOnDate(date, clock)
			if err != nil {
				continue
			}
			remindAt := classStart.Add(-lead)
			if !remindAt.After(now) {
				continue
			}
			if best.IsZero() || remindAt.Before(best) {
				best = remindAt
				bestName = c.Name
			}
		}
		if !best.IsZero() {
			return best, bestName, nil
		}
	}
	return time.Time{}, "", errNoUpcoming
}

// ────────────────────── WidgetRefresh ──────────────────────

// WidgetRefresh 重建小组件内容并写入 Redis
func (h *Hub) WidgetRefresh(ctx context.Context) {
	content, err := h.buildContent(ctx)
	if err != nil {
		h.logger.Error("构建小组件内容失败", zap.Error(err))
		return
	}
	if h.rdb == nil {
		return
	}
	raw, err := json.Marshal(content)
	if err != nil {
		h.logger.Error("序列化小组件内容失败", zap.Error(err))
		return
	}
	if err := h.rdb.SetWidgetContent(ctx, string(raw)); err != nil {
		h.logger.Warn("写入小组件缓存失败", zap.Error(err))
	}
}

// Content 读取小组件内容：优先取 Redis 缓存，未命中或不可用时现场构建
func (h *Hub) Content(ctx context.Context) (*dto.WidgetContent, error) {
	if h.rdb != nil {
		cached, err := h.rdb.GetWidgetContent(ctx)
		if err != nil {
			h.logger.Warn("读取小组件缓存失败", zap.Error(err))
		} else if cached != "" {
			var content dto.WidgetContent
			if err := json.Unmarshal([]byte(cached), &content); err == nil {
				return &content, nil
			}
		}
	}
	return h.buildContent(ctx)
}

// buildContent 组装当前课表的今日视图
func (h *Hub) buildContent(ctx context.Context) (*dto.WidgetContent, error) {
	now := h.now()
	content := &dto.WidgetContent{
		Date:        now.Format("2006-01-02"),
		Courses:     []dto.WidgetCourse{},
		GeneratedAt: now.Format(time.RFC3339),
	}

	pref, err := h.repo.Preference.Get(ctx)
	if err != nil {
		return nil, err
	}
	if pref.CurrentTimetableID == nil {
		return content, nil
	}

	tt, err := h.repo.Timetable.GetDetail(ctx, *pref.CurrentTimetableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return content, nil
		}
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week := weekOfSemester(tt.StartDate, today)
	day := int(today.Weekday()+6)%7 + 1

	content.TimetableID = tt.TimetableID
	content.TimetableName = tt.Name
	content.Week = week
	if week < 1 {
		return content, nil
	}

	startByPeriod := make(map[int]string, len(tt.LessonTimes))
	endByPeriod := make(map[int]string, len(tt.LessonTimes))
	for i := range tt.LessonTimes {
		lt := &tt.LessonTimes[i]
		startByPeriod[lt.Period] = lt.StartTime
		endByPeriod[lt.Period] = lt.EndTime
	}

	var todays []*model.Course
	for i := range tt.Courses {
		c := &tt.Courses[i]
		if c.DayOfWeek == day && c.Weeks.Contains(week) && len(c.Periods) > 0 {
			todays = append(todays, c)
		}
	}
	sort.SliceStable(todays, func(i, j int) bool {
		return minOf(todays[i].Periods) < minOf(todays[j].Periods)
	})

	for _, c := range todays {
		wc := dto.WidgetCourse{
			Name:     c.Name,
			Location: c.Location,
			Periods:  c.Periods,
		}
		if clock, ok := startByPeriod[minOf(c.Periods)]; ok {
			wc.StartTime = clock
		}
		if clock, ok := endByPeriod[maxOf(c.Periods)]; ok {
			wc.EndTime = clock
		}
		content.Courses = append(content.Courses, wc)
	}
	return content, nil
}

// ── 内部辅助方法 ──

// weekOfSemester 某日期是开学后第几周（开学当周为 1，开学前为 0）
func weekOfSemester(startDate, date time.Time) int {
	days := int(date.Sub(startDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

func clockOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("时刻 %q 无法解析: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

func minOf(values []int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maxOf(values []int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// [自证通过] internal/notify/hub.go
