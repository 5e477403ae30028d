package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/eventbus"
	"github.com/yuqie6/WaterBuddy/internal/schema"
)

var (
	ErrInvalidProfile = errors.New("档案无效")
	ErrInvalidAmount  = errors.New("饮水量必须为正数")
)

// 档案表单的取值范围
const (
	MinAge      = 1
	MaxAge      = 120
	MinWeightKg = 20.0
	MaxWeightKg = 300.0

	defaultProfileName = "You"
)

// ExportHeader 导出 CSV 的表头，列顺序需与历史导出文件保持一致
var ExportHeader = []string{"logged_at", "amount_ml"}

// HydrationConfig 服务配置
type HydrationConfig struct {
	DefaultGoalML int
	BottleSizeML  int
	WeatherTempC  *float64 // 仅用于看板展示的目标
}

// HydrationService 饮水业务编排：写入 → 重新计算 → 发放徽章
type HydrationService struct {
	store Store
	hub   *eventbus.Hub
	cfg   HydrationConfig
	now   func() time.Time
}

// NewHydrationService 创建服务；hub 可为 nil
func NewHydrationService(store Store, hub *eventbus.Hub, cfg *HydrationConfig) *HydrationService {
	c := HydrationConfig{DefaultGoalML: DefaultGoalML, BottleSizeML: DefaultBottleSizeML}
	if cfg != nil {
		c = *cfg
		if c.DefaultGoalML <= 0 {
			c.DefaultGoalML = DefaultGoalML
		}
	}
	return &HydrationService{store: store, hub: hub, cfg: c, now: time.Now}
}

// SetWeatherTemp 覆盖看板使用的气温；nil 表示不做天气修正
func (s *HydrationService) SetWeatherTemp(tempC *float64) {
	s.cfg.WeatherTempC = tempC
}

// ProfileInput 档案表单
type ProfileInput struct {
	Name     string
	Age      int
	WeightKg float64
	Activity string
}

// Validate 校验并规范化档案
func (in ProfileInput) Validate() (*schema.Profile, error) {
	if in.Age < MinAge || in.Age > MaxAge {
		return nil, fmt.Errorf("%w: 年龄需在 %d-%d 之间", ErrInvalidProfile, MinAge, MaxAge)
	}
	if in.WeightKg < MinWeightKg || in.WeightKg > MaxWeightKg {
		return nil, fmt.Errorf("%w: 体重需在 %.0f-%.0f kg 之间", ErrInvalidProfile, MinWeightKg, MaxWeightKg)
	}
	activity, ok := schema.ParseActivity(in.Activity)
	if !ok {
		return nil, fmt.Errorf("%w: 未知活动强度 %q（可选 %s）", ErrInvalidProfile, in.Activity, schema.ActivityChoices())
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultProfileName
	}
	return &schema.Profile{Name: name, Age: in.Age, WeightKg: in.WeightKg, Activity: activity}, nil
}

// SaveProfile 保存档案（最新一次写入生效）
func (s *HydrationService) SaveProfile(ctx context.Context, in ProfileInput) (*schema.Profile, error) {
	p, err := in.Validate()
	if err != nil {
		return nil, err
	}
	p.CreatedAt = s.now()
	if err := s.store.SetProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("保存档案失败: %w", err)
	}
	s.hub.Publish(eventbus.ProfileSaved(p.Name, s.now()))
	return p, nil
}

// Profile 当前档案，可能为 nil
func (s *HydrationService) Profile(ctx context.Context) (*schema.Profile, error) {
	return s.store.GetProfile(ctx)
}

// LogResult 一次记录的结果
type LogResult struct {
	Event     schema.IntakeEvent
	NewBadges []string
}

// LogIntake 记录一次饮水并重新评估徽章
func (s *HydrationService) LogIntake(ctx context.Context, amountML int) (*LogResult, error) {
	if amountML <= 0 {
		return nil, ErrInvalidAmount
	}

	evt, err := s.store.AppendEvent(ctx, amountML, s.now())
	if err != nil {
		return nil, fmt.Errorf("写入饮水记录失败: %w", err)
	}
	s.hub.Publish(eventbus.IntakeLogged(amountML, evt.LoggedAt))

	awarded, err := s.EvaluateBadges(ctx)
	if err != nil {
		return nil, err
	}
	return &LogResult{Event: evt, NewBadges: awarded}, nil
}

// EvaluateBadges 按当前历史评估并写入新徽章，返回实际新写入的徽章名
func (s *HydrationService) EvaluateBadges(ctx context.Context) ([]string, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取饮水记录失败: %w", err)
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取档案失败: %w", err)
	}
	badges, err := s.store.GetBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取徽章失败: %w", err)
	}

	now := s.now()
	var awarded []string
	for _, name := range EvaluateBadges(events, BadgeNames(badges), profile, now) {
		added, err := s.store.AddBadge(ctx, name, now)
		if err != nil {
			return awarded, fmt.Errorf("写入徽章失败: %w", err)
		}
		if !added {
			continue
		}
		slog.Info("获得徽章", "badge", name)
		s.hub.Publish(eventbus.BadgeEarned(name, now))
		awarded = append(awarded, name)
	}
	return awarded, nil
}

// Badges 已获得徽章，最新的在前
func (s *HydrationService) Badges(ctx context.Context) ([]schema.Badge, error) {
	badges, err := s.store.GetBadges(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(badges, func(i, j int) bool {
		return badges[i].EarnedAt.After(badges[j].EarnedAt)
	})
	return badges, nil
}

// Dashboard 看板所需的全部数值
type Dashboard struct {
	Profile     *schema.Profile
	GoalML      int
	TodayML     int
	Progress    float64
	Week        []DailyTotal
	WeekTotalML int
	Avg14ML     int
	Adjustment  float64
	Nudge       bool
	Bottles     float64
	CO2SavedKg  float64
	BottleSize  int
	Badges      []schema.Badge
	GeneratedAt time.Time
}

// Dashboard 汇总看板数据
func (s *HydrationService) Dashboard(ctx context.Context) (*Dashboard, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取饮水记录失败: %w", err)
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取档案失败: %w", err)
	}
	badges, err := s.Badges(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取徽章失败: %w", err)
	}

	now := s.now()
	goal := s.cfg.DefaultGoalML
	if profile != nil {
		goal = CalculateGoalML(profile.WeightKg, profile.Age, profile.Activity, s.cfg.WeatherTempC)
	}

	week := TotalsForDays(events, 7, now)
	weekTotal := SumTotals(week)
	today := week[len(week)-1].TotalML
	bottles := BottlesSaved(float64(weekTotal), float64(s.cfg.BottleSizeML))
	adj := PredictorAdjustment(events, profile, now)

	return &Dashboard{
		Profile:     profile,
		GoalML:      goal,
		TodayML:     today,
		Progress:    ProgressRatio(today, goal),
		Week:        week,
		WeekTotalML: weekTotal,
		Avg14ML:     AverageTotals(TotalsForDays(events, 14, now)),
		Adjustment:  adj,
		Nudge:       NeedsNudge(adj),
		Bottles:     bottles,
		CO2SavedKg:  CO2SavedKg(bottles),
		BottleSize:  s.cfg.BottleSizeML,
		Badges:      badges,
		GeneratedAt: now,
	}, nil
}

// ExportCSV 以 CSV 导出全部记录（含表头）
func (s *HydrationService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("读取饮水记录失败: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, fmt.Errorf("写入表头失败: %w", err)
	}
	for _, e := range events {
		if err := cw.Write([]string{schema.FormatLoggedAt(e.LoggedAt), strconv.Itoa(e.AmountML)}); err != nil {
			return 0, fmt.Errorf("写入记录失败: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("导出 CSV 失败: %w", err)
	}
	return len(events), nil
}

// ReminderInterval 根据预测系数缩短提醒间隔
func (s *HydrationService) ReminderInterval(ctx context.Context, base time.Duration) (time.Duration, float64, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return base, AdjustmentNone, fmt.Errorf("读取饮水记录失败: %w", err)
	}
	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return base, AdjustmentNone, fmt.Errorf("读取档案失败: %w", err)
	}
	adj := PredictorAdjustment(events, profile, s.now())
	return time.Duration(float64(base) / adj), adj, nil
}
