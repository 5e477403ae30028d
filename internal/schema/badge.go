package schema

import "time"

// 徽章词表
const (
	BadgeFirstLog    = "first-log"
	BadgeSevenStreak = "7-day-streak"
)

// Badge 已获得的徽章，同名只发放一次
type Badge struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"size:50;uniqueIndex" json:"name"`
	EarnedAt time.Time `gorm:"index" json:"earned_at"`
}

// TableName 指定表名
func (Badge) TableName() string {
	return "badges"
}
