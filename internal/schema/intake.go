package schema

import (
	"fmt"
	"sort"
	"time"
)

// IntakeLog 饮水记录（持久化形态）
// LoggedAt 以文本保存，读取时解析失败的行会被跳过
// 数据量级：千级/年
type IntakeLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LoggedAt  string    `gorm:"size:40;index" json:"logged_at"`
	AmountML  int       `gorm:"not null" json:"amount_ml"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// TableName 指定表名
func (IntakeLog) TableName() string {
	return "intake_logs"
}

// IntakeEvent 一次饮水（领域值，不可变）
type IntakeEvent struct {
	LoggedAt time.Time
	AmountML int
}

// 旧版导出文件中的时间戳不带时区，按本地时间解释
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatLoggedAt 统一的时间戳存储格式
func FormatLoggedAt(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseLoggedAt 解析存储的时间戳
func ParseLoggedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间戳 %q", s)
}

// ToEvent 转换为领域事件
func (l IntakeLog) ToEvent() (IntakeEvent, error) {
	t, err := ParseLoggedAt(l.LoggedAt)
	if err != nil {
		return IntakeEvent{}, err
	}
	return IntakeEvent{LoggedAt: t, AmountML: l.AmountML}, nil
}

// SortEvents 按时间升序原地排序（稳定排序，同一时刻的记录保持原相对顺序）
func SortEvents(events []IntakeEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].LoggedAt.Before(events[j].LoggedAt)
	})
}
