package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/WaterBuddy/internal/schema"
	"gorm.io/gorm"
)

// ProfileRepository 档案仓储
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建档案仓储
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create 新增一版档案
func (r *ProfileRepository) Create(ctx context.Context, profile *schema.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("保存档案失败: %w", err)
	}
	return nil
}

// GetLatest 获取最新一版档案，没有时返回 nil
func (r *ProfileRepository) GetLatest(ctx context.Context) (*schema.Profile, error) {
	var profile schema.Profile
	err := r.db.WithContext(ctx).Order("id DESC").First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询档案失败: %w", err)
	}
	return &profile, nil
}
