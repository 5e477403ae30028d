package schema

import (
	"strings"
	"time"
)

// Activity 活动强度
type Activity string

const (
	ActivityLow    Activity = "low"
	ActivityNormal Activity = "normal"
	ActivityHigh   Activity = "high"
)

// Activities 表单可选的活动强度（顺序即展示顺序）
var Activities = []Activity{ActivityLow, ActivityNormal, ActivityHigh}

// ActivityChoices 形如 low|normal|high，用于提示
func ActivityChoices() string {
	names := make([]string, len(Activities))
	for i, a := range Activities {
		names[i] = string(a)
	}
	return strings.Join(names, "|")
}

// ParseActivity 解析活动强度，大小写不敏感
func ParseActivity(s string) (Activity, bool) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Activities {
		if a == v {
			return a, true
		}
	}
	return "", false
}

// Profile 用户档案
// 每次保存都新增一行，读取时以最新一行为准
type Profile struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Age       int       `json:"age"`
	WeightKg  float64   `json:"weight_kg"`
	Activity  Activity  `gorm:"size:20" json:"activity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
