package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/WaterBuddy/internal/collector"
	"github.com/yuqie6/WaterBuddy/internal/eventbus"
	"github.com/yuqie6/WaterBuddy/internal/pkg/buildinfo"
	"github.com/yuqie6/WaterBuddy/internal/pkg/config"
	"github.com/yuqie6/WaterBuddy/internal/render"
	"github.com/yuqie6/WaterBuddy/internal/schema"
	"github.com/yuqie6/WaterBuddy/internal/service"
)

// 快捷记录的可选量
var quickAmounts = map[int]bool{50: true, 100: true, 250: true, 500: true}

const exportFileName = "water_buddy_logs.csv"

// profileCmd 档案命令
func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "查看或设置档案",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "显示当前档案",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := core.Services.Hydration.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(render.Profile(p))
			return nil
		},
	}

	var in service.ProfileInput
	set := &cobra.Command{
		Use:   "set",
		Short: "保存档案（最新一次生效）",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := core.Services.Hydration.SaveProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Println("✅ Profile saved.")
			fmt.Print(render.Profile(p))
			return nil
		},
	}
	set.Flags().StringVar(&in.Name, "name", "", "姓名（默认 You）")
	set.Flags().IntVar(&in.Age, "age", 25, "年龄 (1-120)")
	set.Flags().Float64Var(&in.WeightKg, "weight", 65, "体重 kg (20-300)")
	set.Flags().StringVar(&in.Activity, "activity", string(schema.ActivityNormal), "活动强度 "+schema.ActivityChoices())

	cmd.AddCommand(show, set)
	return cmd
}

// logCmd 记录饮水
func logCmd() *cobra.Command {
	var quick int

	cmd := &cobra.Command{
		Use:   "log [ml]",
		Short: "记录一次饮水",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount := quick
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("饮水量需为整数毫升: %w", err)
				}
				amount = v
			} else if !quickAmounts[quick] {
				return fmt.Errorf("--quick 只支持 50/100/250/500")
			}

			res, err := core.Services.Hydration.LogIntake(cmd.Context(), amount)
			if err != nil {
				return err
			}
			fmt.Printf("💧 Logged %d ml\n", res.Event.AmountML)
			for _, b := range res.NewBadges {
				fmt.Printf("🏅 New badge: %s\n", b)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&quick, "quick", "q", 250, "快捷记录量 50|100|250|500")
	return cmd
}

// dashboardCmd 看板
func dashboardCmd() *cobra.Command {
	var temp float64

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "查看今日进度、周趋势与徽章",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("temp") {
				core.Services.Hydration.SetWeatherTemp(&temp)
			}
			return printDashboard(cmd.Context())
		},
	}

	cmd.Flags().Float64Var(&temp, "temp", 0, "当前气温 °C（覆盖配置）")
	return cmd
}

func printDashboard(ctx context.Context) error {
	d, err := core.Services.Hydration.Dashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Println(render.Dashboard(d))
	return nil
}

// badgesCmd 徽章列表
func badgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "查看已获得的徽章",
		RunE: func(cmd *cobra.Command, args []string) error {
			badges, err := core.Services.Hydration.Badges(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(render.Badges(badges))
			return nil
		},
	}
}

// exportCmd 导出 CSV
func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出全部饮水记录为 CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "-" {
				_, err := core.Services.Hydration.ExportCSV(cmd.Context(), os.Stdout)
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("创建导出文件失败: %w", err)
			}
			n, err := core.Services.Hydration.ExportCSV(cmd.Context(), f)
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("关闭导出文件失败: %w", cerr)
			}
			if err != nil {
				return err
			}
			fmt.Printf("✅ Exported %d logs to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", exportFileName, "输出文件（- 表示标准输出）")
	return cmd
}

// remindCmd 前台提醒循环
func remindCmd() *cobra.Command {
	var intervalMin int
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "按间隔提醒喝水（落后于目标时加密提醒）",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := core.Cfg.Reminder
			if cmd.Flags().Changed("interval") {
				rc.IntervalMin = intervalMin
				rc.Enabled = true
			}
			if !rc.Enabled {
				fmt.Println("⏸  Reminders are disabled. Set reminder.enabled=true or pass --interval.")
				return nil
			}
			base := time.Duration(rc.ClampedIntervalMin()) * time.Minute

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for {
				interval, adj, err := core.Services.Hydration.ReminderInterval(ctx, base)
				if err != nil {
					return err
				}
				if once {
					fmt.Printf("Next reminder in %s (adjustment %.2f)\n", interval.Round(time.Second), adj)
					return nil
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(interval):
				}

				nudge := service.NeedsNudge(adj)
				core.Hub.Publish(eventbus.Reminder(adj, nudge))
				if nudge {
					fmt.Printf("[%s] 💧 You're behind your goal. Time for a few sips!\n", time.Now().Format("15:04"))
				} else {
					fmt.Printf("[%s] 💧 Time for a glass of water.\n", time.Now().Format("15:04"))
				}
			}
		},
	}

	cmd.Flags().IntVarP(&intervalMin, "interval", "i", 60, "提醒间隔分钟 (5-240)")
	cmd.Flags().BoolVar(&once, "once", false, "只打印下一次提醒时间")
	return cmd
}

// watchCmd 监听存储变化并刷新看板
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "监听数据变化并实时刷新看板",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dir, files := core.WatchTarget()
			w, err := collector.NewStoreWatcher(collector.StoreWatcherConfig{
				Dir:        dir,
				Files:      files,
				DebounceMs: core.Cfg.Watch.DebounceMs,
			}, core.Hub)
			if err != nil {
				return err
			}
			defer w.Stop()

			events := core.Hub.SubscribeTypes(ctx, 16, eventbus.TypeStoreChanged)
			w.Start(ctx)

			if err := printDashboard(ctx); err != nil {
				return err
			}
			for evt := range events {
				slog.Debug("数据已变化，刷新看板", "files", evt.Files())
				fmt.Print("\033[H\033[2J")
				if err := printDashboard(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// configCmd 配置相关
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "配置管理",
		Annotations: map[string]string{"skipCore": "true"},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "写入默认配置文件",
		Annotations: map[string]string{"skipCore": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("配置文件已存在: %s（使用 --force 覆盖）", path)
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("✅ Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "覆盖已有配置")

	cmd.AddCommand(initCmd)
	return cmd
}

// versionCmd 版本信息
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "显示版本",
		Annotations: map[string]string{"skipCore": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("buddy %s (%s)\n", buildinfo.Version, buildinfo.Commit)
		},
	}
}
