package render

import (
	"strings"
	"testing"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
	"github.com/yuqie6/WaterBuddy/internal/service"
)

func sampleDashboard(nudge bool) *service.Dashboard {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	week := make([]service.DailyTotal, 7)
	for i := range week {
		d := now.AddDate(0, 0, i-6)
		week[i] = service.DailyTotal{Date: d.Format("2006-01-02"), Day: d, TotalML: 300 * i}
	}
	return &service.Dashboard{
		GoalML:      2450,
		TodayML:     1800,
		Progress:    service.ProgressRatio(1800, 2450),
		Week:        week,
		WeekTotalML: 6300,
		Avg14ML:     450,
		Nudge:       nudge,
		Bottles:     12.6,
		CO2SavedKg:  service.CO2SavedKg(12.6),
		BottleSize:  500,
		Badges:      []schema.Badge{{Name: schema.BadgeFirstLog, EarnedAt: now}},
		GeneratedAt: now,
	}
}

func TestDashboardContainsKeyFigures(t *testing.T) {
	out := Dashboard(sampleDashboard(false))
	for _, want := range []string{
		"Goal: 2450 ml",
		"Today: 1800 ml",
		"73%",
		"14-day average: 450 ml",
		"Refill bottles (500 ml): 12.6",
		"first-log",
		"2025-06-15",
		AdviceOK,
		"No profile set yet",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestAdvice(t *testing.T) {
	if Advice(sampleDashboard(true)) != AdviceNudge {
		t.Fatalf("nudge advice expected")
	}
	if Advice(sampleDashboard(false)) != AdviceOK {
		t.Fatalf("ok advice expected")
	}
}

func TestProgressBarWidth(t *testing.T) {
	for _, r := range []float64{-1, 0, 0.5, 1, 3} {
		bar := ProgressBar(r, 10)
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("ProgressBar(%v) cells=%d, want 10", r, got)
		}
	}
}

func TestWeeklyBarsOneLinePerDay(t *testing.T) {
	out := WeeklyBars(sampleDashboard(false).Week, 2450)
	if lines := strings.Count(out, "\n"); lines != 7 {
		t.Fatalf("lines=%d, want 7", lines)
	}
}

func TestBadgesEmpty(t *testing.T) {
	if !strings.Contains(Badges(nil), "No badges yet.") {
		t.Fatalf("empty badges text missing")
	}
}

func TestProfileShowsGoal(t *testing.T) {
	out := Profile(&schema.Profile{Name: "Ana", Age: 30, WeightKg: 70, Activity: schema.ActivityNormal})
	if !strings.Contains(out, "Daily goal: 2450 ml") || !strings.Contains(out, "Ana") {
		t.Fatalf("profile=%q", out)
	}
}
