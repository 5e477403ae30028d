package service

import (
	"context"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

// 存储后端的最小接口集合（sqlite / json 两种实现，启动时二选一）

type Store interface {
	// AppendEvent 返回前必须已落盘，后续徽章评估要能读到
	AppendEvent(ctx context.Context, amountML int, loggedAt time.Time) (schema.IntakeEvent, error)
	// ListEvents 按 LoggedAt 升序返回，无法解析的记录被跳过
	ListEvents(ctx context.Context) ([]schema.IntakeEvent, error)
	// GetProfile 没有档案时返回 (nil, nil)
	GetProfile(ctx context.Context) (*schema.Profile, error)
	SetProfile(ctx context.Context, profile *schema.Profile) error
	GetBadges(ctx context.Context) ([]schema.Badge, error)
	// AddBadge 同名已存在时不写入，返回 false
	AddBadge(ctx context.Context, name string, earnedAt time.Time) (bool, error)
	Close() error
}
