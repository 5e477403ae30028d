package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuqie6/WaterBuddy/internal/bootstrap"
)

var (
	cfgFile string
	core    *bootstrap.Core
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run 执行命令并返回退出码
func run(args []string, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	// RunE 出错时 cobra 不会执行 PostRun，统一在这里关闭
	closeCore()
	if err != nil {
		slog.Debug("命令执行失败", "error", err)
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "buddy",
		Short:         "Water Buddy - 本地饮水记录与提醒",
		Long:          `Water Buddy 记录每日饮水，按档案计算目标，并给出趋势、徽章与提醒。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipCore"] == "true" {
				return nil
			}
			var err error
			core, err = bootstrap.NewCore(cfgFile)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(badgesCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func closeCore() {
	if core == nil {
		return
	}
	if err := core.Close(); err != nil {
		slog.Warn("关闭存储失败", "error", err)
	}
	core = nil
}
