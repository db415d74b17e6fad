package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
)

// LessonTimeRepository 节次时间数据访问接口
type LessonTimeRepository interface {
	Create(ctx context.Context, lt *model.LessonTime) error
	GetByID(ctx context.Context, id string) (*model.LessonTime, error)
	ListByTimetable(ctx context.Context, timetableID string) ([]model.LessonTime, error)
	Update(ctx context.Context, lt *model.LessonTime) error
	// UpdatePeriod 仅更新指定行的 period 字段（重编号专用）
	UpdatePeriod(ctx context.Context, id string, period int) error
	Delete(ctx context.Context, id string) error
}

type lessonTimeRepo struct {
	db *gorm.DB
}

// NewLessonTimeRepo 创建 LessonTimeRepository 实例
func NewLessonTimeRepo(db *gorm.DB) LessonTimeRepository {
	return &lessonTimeRepo{db: db}
}

func (r *lessonTimeRepo) Create(ctx context.Context, lt *model.LessonTime) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *lessonTimeRepo) GetByID(ctx context.Context, id string) (*model.LessonTime, error) {
	var lt model.LessonTime
	err := r.db.WithContext(ctx).
		Where("lesson_time_id = ?", id).
		First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *lessonTimeRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.LessonTime, error) {
	var lts []model.LessonTime
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Order("start_time ASC").
		Find(&lts).Error
	return lts, err
}

func (r *lessonTimeRepo) Update(ctx context.Context, lt *model.LessonTime) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *lessonTimeRepo) UpdatePeriod(ctx context.Context, id string, period int) error {
	return r.db.WithContext(ctx).
		Model(&model.LessonTime{}).
		Where("lesson_time_id = ?", id).
		Update("period", period).Error
}

func (r *lessonTimeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lesson_time_id = ?", id).
		Delete(&model.LessonTime{}).Error
}
