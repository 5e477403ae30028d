package service

import (
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

// 预测调整系数
const (
	AdjustmentNone   = 1.0
	AdjustmentMild   = 1.05
	AdjustmentStrong = 1.2

	predictorWindowDays = 7
	predictorRecentDays = 3
)

// PredictorAdjustment 根据最近几天的日均与目标的差距给出提醒力度系数
// 历史不足 3 天时只对已有天数求平均；没有档案或没有记录返回 1.0
func PredictorAdjustment(events []schema.IntakeEvent, profile *schema.Profile, now time.Time) float64 {
	goal, ok := GoalForProfile(profile)
	if !ok || len(events) == 0 {
		return AdjustmentNone
	}

	n := historyDays(events, now)
	if n == 0 {
		return AdjustmentNone
	}
	if n > predictorRecentDays {
		n = predictorRecentDays
	}

	totals := TotalsForDays(events, predictorWindowDays, now)
	sum := SumTotals(totals[len(totals)-n:])

	// avg < 70% × goal 等价于 sum×100 < 70×goal×n
	switch {
	case sum*100 < 70*goal*n:
		return AdjustmentStrong
	case sum*100 < 90*goal*n:
		return AdjustmentMild
	default:
		return AdjustmentNone
	}
}

// historyDays 从最早一条记录所在日到今天（含）的天数；只有未来记录时返回 0
func historyDays(events []schema.IntakeEvent, now time.Time) int {
	loc := now.Location()
	today := calendarDay(now, loc)

	var earliest time.Time
	found := false
	for _, e := range events {
		d := calendarDay(e.LoggedAt, loc)
		if d.After(today) {
			continue
		}
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}
	if !found {
		return 0
	}
	return int(today.Sub(earliest)/(24*time.Hour)) + 1
}

// NeedsNudge 调整系数是否意味着应当加密提醒
func NeedsNudge(adjustment float64) bool {
	return adjustment > AdjustmentMild
}
