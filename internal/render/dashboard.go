package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuqie6/WaterBuddy/internal/schema"
	"github.com/yuqie6/WaterBuddy/internal/service"
)

const (
	progressWidth = 30
	weekBarWidth  = 24
)

// 建议文案
const (
	AdviceNudge = "Recent intake is below goal. Try smaller, more frequent sips; reminders will nudge more often."
	AdviceOK    = "You're doing well! Keep the streak going."
)

// Advice 根据看板的预测结果给出建议
func Advice(d *service.Dashboard) string {
	if d.Nudge {
		return AdviceNudge
	}
	return AdviceOK
}

// Dashboard 渲染完整看板
func Dashboard(d *service.Dashboard) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Water Buddy"))
	b.WriteString("\n")
	if d.Profile == nil {
		b.WriteString(mutedStyle.Render("No profile set yet. Run `buddy profile set` to personalise your goal."))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Goal: %d ml  |  Today: %d ml\n\n", d.GoalML, d.TodayML))

	b.WriteString(headingStyle.Render("Progress"))
	b.WriteString("\n")
	b.WriteString(ProgressBar(d.Progress, progressWidth))
	b.WriteString(fmt.Sprintf(" %d%%\n\n", int(d.Progress*100)))

	b.WriteString(headingStyle.Render("Suggestion"))
	b.WriteString("\n")
	if d.Nudge {
		b.WriteString(warnStyle.Render(Advice(d)))
	} else {
		b.WriteString(okStyle.Render(Advice(d)))
	}
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Weekly hydration (ml)"))
	b.WriteString("\n")
	b.WriteString(WeeklyBars(d.Week, d.GoalML))
	b.WriteString("\n")

	insights := []string{
		fmt.Sprintf("14-day average: %d ml", d.Avg14ML),
		fmt.Sprintf("This week's total: %d ml", d.WeekTotalML),
		fmt.Sprintf("Refill bottles (%d ml): %.1f", d.BottleSize, d.Bottles),
		fmt.Sprintf("Estimated CO₂ saved: %.2f kg", d.CO2SavedKg),
	}
	b.WriteString(boxStyle.Render(strings.Join(insights, "\n")))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Badges"))
	b.WriteString("\n")
	b.WriteString(Badges(d.Badges))

	return b.String()
}

// ProgressBar 文本进度条
func ProgressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return fillStyle.Render(strings.Repeat("█", filled)) + trackStyle.Render(strings.Repeat("░", width-filled))
}

// WeeklyBars 每日一行的横向柱状图，目标位置用 | 标出
func WeeklyBars(week []service.DailyTotal, goalML int) string {
	maxVal := goalML
	for _, d := range week {
		if d.TotalML > maxVal {
			maxVal = d.TotalML
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	goalPos := goalML * weekBarWidth / maxVal

	var b strings.Builder
	for _, d := range week {
		n := d.TotalML * weekBarWidth / maxVal
		cells := make([]string, weekBarWidth)
		for i := range cells {
			switch {
			case i < n:
				cells[i] = fillStyle.Render("█")
			case i == goalPos:
				cells[i] = mutedStyle.Render("|")
			default:
				cells[i] = " "
			}
		}
		label := d.Date
		if !d.Day.IsZero() {
			label = d.Day.Format("Mon 01-02")
		}
		b.WriteString(fmt.Sprintf("%-9s %s %d\n", label, strings.Join(cells, ""), d.TotalML))
	}
	return b.String()
}

// Badges 徽章列表（调用方负责排序）
func Badges(badges []schema.Badge) string {
	if len(badges) == 0 {
		return mutedStyle.Render("No badges yet.") + "\n"
	}
	var b strings.Builder
	for _, badge := range badges {
		b.WriteString(fmt.Sprintf("• %s (earned %s)\n", lipgloss.NewStyle().Bold(true).Render(badge.Name), badge.EarnedAt.Format("2006-01-02")))
	}
	return b.String()
}

// Profile 档案摘要
func Profile(p *schema.Profile) string {
	if p == nil {
		return mutedStyle.Render("No profile set yet.") + "\n"
	}
	goal, _ := service.GoalForProfile(p)
	lines := []string{
		headingStyle.Render(p.Name),
		fmt.Sprintf("Age: %d", p.Age),
		fmt.Sprintf("Weight: %g kg", p.WeightKg),
		fmt.Sprintf("Activity: %s", p.Activity),
		fmt.Sprintf("Daily goal: %d ml", goal),
	}
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}
