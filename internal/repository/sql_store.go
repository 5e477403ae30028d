package repository

import (
	"context"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

// SQLStore 基于 SQLite 的存储后端
type SQLStore struct {
	db       *Database
	profiles *ProfileRepository
	intakes  *IntakeRepository
	badges   *BadgeRepository
}

// NewSQLStore 打开（必要时创建）数据库文件
func NewSQLStore(dbPath string) (*SQLStore, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return newSQLStore(db), nil
}

func newSQLStore(db *Database) *SQLStore {
	return &SQLStore{
		db:       db,
		profiles: NewProfileRepository(db.DB),
		intakes:  NewIntakeRepository(db.DB),
		badges:   NewBadgeRepository(db.DB),
	}
}

func (s *SQLStore) AppendEvent(ctx context.Context, amountML int, loggedAt time.Time) (schema.IntakeEvent, error) {
	row := &schema.IntakeLog{LoggedAt: schema.FormatLoggedAt(loggedAt), AmountML: amountML}
	if err := s.intakes.Create(ctx, row); err != nil {
		return schema.IntakeEvent{}, err
	}
	return schema.IntakeEvent{LoggedAt: loggedAt, AmountML: amountML}, nil
}

func (s *SQLStore) ListEvents(ctx context.Context) ([]schema.IntakeEvent, error) {
	return s.intakes.ListAll(ctx)
}

func (s *SQLStore) GetProfile(ctx context.Context) (*schema.Profile, error) {
	return s.profiles.GetLatest(ctx)
}

func (s *SQLStore) SetProfile(ctx context.Context, profile *schema.Profile) error {
	p := *profile
	p.ID = 0
	if err := s.profiles.Create(ctx, &p); err != nil {
		return err
	}
	profile.ID = p.ID
	return nil
}

func (s *SQLStore) GetBadges(ctx context.Context) ([]schema.Badge, error) {
	return s.badges.GetAll(ctx)
}

func (s *SQLStore) AddBadge(ctx context.Context, name string, earnedAt time.Time) (bool, error) {
	return s.badges.AddIfAbsent(ctx, name, earnedAt)
}

// Close 关闭数据库
func (s *SQLStore) Close() error {
	return s.db.Close()
}
