package service

import (
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

const dateLayout = "2006-01-02"

// DailyTotal 某个自然日的饮水合计（按需计算，不落库）
type DailyTotal struct {
	Date    string    `json:"date"` // YYYY-MM-DD
	Day     time.Time `json:"-"`    // 日历日，UTC 零点，只承载年月日
	TotalML int       `json:"total_ml"`
}

// calendarDay 取 t 在 loc 中的年月日，落到 UTC 零点
// 按日历日期做加减，夏令时跳过零点的日子也不会错位
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// TotalsForDays 返回截至 now 所在日的最近 days 天合计，旧日期在前，无记录的日期补 0
// 事件按 now 的时区归日，调用方需保证存储与计算使用同一本地时钟
func TotalsForDays(events []schema.IntakeEvent, days int, now time.Time) []DailyTotal {
	if days <= 0 {
		return []DailyTotal{}
	}
	loc := now.Location()

	sums := make(map[string]int, len(events))
	for _, e := range events {
		sums[dayKey(e.LoggedAt, loc)] += e.AmountML
	}

	today := calendarDay(now, loc)
	out := make([]DailyTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := d.Format(dateLayout)
		out = append(out, DailyTotal{Date: key, Day: d, TotalML: sums[key]})
	}
	return out
}

// TodayTotal 今日合计
func TodayTotal(events []schema.IntakeEvent, now time.Time) int {
	totals := TotalsForDays(events, 1, now)
	return totals[len(totals)-1].TotalML
}

// SumTotals 合计
func SumTotals(totals []DailyTotal) int {
	sum := 0
	for _, t := range totals {
		sum += t.TotalML
	}
	return sum
}

// AverageTotals 日均（整数截断），空序列返回 0
func AverageTotals(totals []DailyTotal) int {
	if len(totals) == 0 {
		return 0
	}
	return SumTotals(totals) / len(totals)
}
