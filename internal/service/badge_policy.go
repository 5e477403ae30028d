package service

import (
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

const (
	streakDays = 7
	// 每日需达到目标的百分比
	streakPercent = 75
)

// EvaluateBadges 返回本次新获得的徽章名（已有的不会重复返回）
// first-log：存在任意记录；7-day-streak：最近 7 个自然日每天都达到目标的 75%
func EvaluateBadges(events []schema.IntakeEvent, existing map[string]bool, profile *schema.Profile, now time.Time) []string {
	var earned []string

	if len(events) > 0 && !existing[schema.BadgeFirstLog] {
		earned = append(earned, schema.BadgeFirstLog)
	}

	if !existing[schema.BadgeSevenStreak] && hasStreak(events, profile, now) {
		earned = append(earned, schema.BadgeSevenStreak)
	}

	return earned
}

// hasStreak 目标非正（档案缺失或退化）时不发放连续达标徽章
func hasStreak(events []schema.IntakeEvent, profile *schema.Profile, now time.Time) bool {
	goal, ok := GoalForProfile(profile)
	if !ok || goal <= 0 {
		return false
	}
	for _, t := range TotalsForDays(events, streakDays, now) {
		if t.TotalML*100 < streakPercent*goal {
			return false
		}
	}
	return true
}

// BadgeNames 徽章名集合
func BadgeNames(badges []schema.Badge) map[string]bool {
	names := make(map[string]bool, len(badges))
	for _, b := range badges {
		names[b.Name] = true
	}
	return names
}
