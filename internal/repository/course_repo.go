package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByTimetable(ctx context.Context, timetableID string) ([]model.Course, error)
	// ListByTimetableAndDay 查同一课表同一星期几的课程（冲突检测用）
	ListByTimetableAndDay(ctx context.Context, timetableID string, dayOfWeek int) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByTimetable(ctx context.Context, timetableID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", timetableID).
		Order("day_of_week ASC, created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ListByTimetableAndDay(ctx context.Context, timetableID string, dayOfWeek int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("timetable_id = ? AND day_of_week = ?", timetableID, dayOfWeek).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
