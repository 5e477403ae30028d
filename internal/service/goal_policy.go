package service

import "github.com/yuqie6/WaterBuddy/internal/schema"

const (
	// BaseMLPerKg 每公斤体重的基础饮水量
	BaseMLPerKg = 35
	// DefaultGoalML 没有档案时使用的目标
	DefaultGoalML = 2000

	seniorAge        = 65
	seniorMultiplier = 0.9
)

// activityMultiplier 活动强度系数，未知值按 normal 处理
func activityMultiplier(a schema.Activity) float64 {
	switch a {
	case schema.ActivityLow:
		return 0.95
	case schema.ActivityHigh:
		return 1.2
	default:
		return 1.0
	}
}

// weatherMultiplier 气温系数
func weatherMultiplier(tempC *float64) float64 {
	if tempC == nil {
		return 1.0
	}
	switch {
	case *tempC >= 30:
		return 1.25
	case *tempC >= 25:
		return 1.10
	default:
		return 1.0
	}
}

// CalculateGoalML 计算每日饮水目标（毫升，向零截断）
// 体重非正时结果退化为 0 或负数，由调用方负责校验档案
func CalculateGoalML(weightKg float64, age int, activity schema.Activity, weatherTempC *float64) int {
	base := weightKg * BaseMLPerKg
	multiplier := activityMultiplier(activity)
	if age >= seniorAge {
		multiplier *= seniorMultiplier
	}
	multiplier *= weatherMultiplier(weatherTempC)
	return int(base * multiplier)
}

// GoalForProfile 档案对应的目标（不含天气项）；没有档案返回 false
func GoalForProfile(p *schema.Profile) (int, bool) {
	if p == nil {
		return 0, false
	}
	return CalculateGoalML(p.WeightKg, p.Age, p.Activity, nil), true
}
