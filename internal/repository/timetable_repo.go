package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
)

// TimetableRepository 课表数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, tt *model.Timetable) error
	GetByID(ctx context.Context, id string) (*model.Timetable, error)
	// GetDetail 返回课表及其全部节次时间与课程
	GetDetail(ctx context.Context, id string) (*model.Timetable, error)
	List(ctx context.Context) ([]model.Timetable, error)
	Update(ctx context.Context, tt *model.Timetable) error
	Delete(ctx context.Context, id string) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Create(tt).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Where("timetable_id = ?", id).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) GetDetail(ctx context.Context, id string) (*model.Timetable, error) {
	var tt model.Timetable
	err := r.db.WithContext(ctx).
		Preload("LessonTimes", func(db *gorm.DB) *gorm.DB {
			return db.Order("period ASC")
		}).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC")
		}).
		Where("timetable_id = ?", id).
		First(&tt).Error
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *timetableRepo) List(ctx context.Context) ([]model.Timetable, error) {
	var tts []model.Timetable
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&tts).Error
	return tts, err
}

func (r *timetableRepo) Update(ctx context.Context, tt *model.Timetable) error {
	return r.db.WithContext(ctx).Save(tt).Error
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	// 节次时间与课程由外键 ON DELETE CASCADE 级联删除
	return r.db.WithContext(ctx).
		Where("timetable_id = ?", id).
		Delete(&model.Timetable{}).Error
}
