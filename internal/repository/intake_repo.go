package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
	"gorm.io/gorm"
)

// IntakeRepository 饮水记录仓储（只追加）
type IntakeRepository struct {
	db *gorm.DB
}

// NewIntakeRepository 创建饮水记录仓储
func NewIntakeRepository(db *gorm.DB) *IntakeRepository {
	return &IntakeRepository{db: db}
}

// Create 追加一条记录
func (r *IntakeRepository) Create(ctx context.Context, log *schema.IntakeLog) error {
	start := time.Now()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		slog.Error("写入饮水记录失败", "amount_ml", log.AmountML, "error", err)
		return fmt.Errorf("写入饮水记录失败: %w", err)
	}
	slog.Debug("写入饮水记录成功", "id", log.ID, "duration", time.Since(start))
	return nil
}

// ListAll 读取全部记录并转换为领域事件，按时间升序
// 时间戳无法解析的行跳过
func (r *IntakeRepository) ListAll(ctx context.Context) ([]schema.IntakeEvent, error) {
	var rows []schema.IntakeLog
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询饮水记录失败: %w", err)
	}
	return toEvents(rows), nil
}

// toEvents 行转领域事件：时间戳无法解析或饮水量非正的行跳过，结果按时间升序
func toEvents(rows []schema.IntakeLog) []schema.IntakeEvent {
	events := make([]schema.IntakeEvent, 0, len(rows))
	badTime, badAmount := 0, 0
	for _, row := range rows {
		if row.AmountML <= 0 {
			badAmount++
			continue
		}
		evt, err := row.ToEvent()
		if err != nil {
			badTime++
			continue
		}
		events = append(events, evt)
	}
	if badTime > 0 || badAmount > 0 {
		slog.Warn("跳过无效的饮水记录", "bad_time", badTime, "bad_amount", badAmount)
	}
	schema.SortEvents(events)
	return events
}
