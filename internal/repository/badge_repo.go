package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeRepository 徽章仓储
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository 创建徽章仓储
func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// GetAll 获取全部徽章
func (r *BadgeRepository) GetAll(ctx context.Context) ([]schema.Badge, error) {
	var badges []schema.Badge
	if err := r.db.WithContext(ctx).Order("earned_at DESC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("查询徽章失败: %w", err)
	}
	return badges, nil
}

// AddIfAbsent 同名徽章不存在时写入，返回是否写入
func (r *BadgeRepository) AddIfAbsent(ctx context.Context, name string, earnedAt time.Time) (bool, error) {
	badge := schema.Badge{Name: name, EarnedAt: earnedAt}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&badge)
	if result.Error != nil {
		return false, fmt.Errorf("写入徽章失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
