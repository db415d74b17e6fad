package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/binbin323/starschedule-server/internal/model"
)

// PreferenceRepository 用户偏好数据访问接口（单行表）
type PreferenceRepository interface {
	Get(ctx context.Context) (*model.UserPreference, error)
	Update(ctx context.Context, pref *model.UserPreference) error
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Get(ctx context.Context) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := r.db.WithContext(ctx).
		Where("preference_id = ?", 1).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 迁移保证单行存在；缺失时按默认值补建
		pref = model.UserPreference{PreferenceID: 1, ReminderEnabled: true}
		if err := r.db.WithContext(ctx).Create(&pref).Error; err != nil {
			return nil, err
		}
		return &pref, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepo) Update(ctx context.Context, pref *model.UserPreference) error {
	pref.PreferenceID = 1
	return r.db.WithContext(ctx).Save(pref).Error
}
