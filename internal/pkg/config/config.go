package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// 存储后端
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// 提醒间隔的取值范围（分钟）
const (
	MinReminderIntervalMin = 5
	MaxReminderIntervalMin = 240
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Goal     GoalConfig     `mapstructure:"goal"`
	Eco      EcoConfig      `mapstructure:"eco"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	LogLevel string `mapstructure:"log_level"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Backend string `mapstructure:"backend"`  // sqlite | json
	DBPath  string `mapstructure:"db_path"`  // sqlite 文件
	DataDir string `mapstructure:"data_dir"` // json 文件目录
}

// GoalConfig 目标配置
type GoalConfig struct {
	DefaultML    int     `mapstructure:"default_ml"` // 没有档案时的目标
	UseWeather   bool    `mapstructure:"use_weather"`
	WeatherTempC float64 `mapstructure:"weather_temp_c"`
}

// EcoConfig 环保估算配置
type EcoConfig struct {
	BottleSizeML int `mapstructure:"bottle_size_ml"`
}

// ReminderConfig 提醒配置
type ReminderConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	IntervalMin int  `mapstructure:"interval_min"`
}

// WatchConfig 数据文件监听配置
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

// WeatherTemp 未启用天气修正时返回 nil
func (g GoalConfig) WeatherTemp() *float64 {
	if !g.UseWeather {
		return nil
	}
	t := g.WeatherTempC
	return &t
}

// ClampedIntervalMin 提醒间隔限制在 5-240 分钟
func (r ReminderConfig) ClampedIntervalMin() int {
	switch {
	case r.IntervalMin < MinReminderIntervalMin:
		return MinReminderIntervalMin
	case r.IntervalMin > MaxReminderIntervalMin:
		return MaxReminderIntervalMin
	default:
		return r.IntervalMin
	}
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 支持环境变量，如 BUDDY_STORAGE_BACKEND=json
	v.SetEnvPrefix("BUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("配置文件未找到，使用默认配置")
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		slog.Debug("加载配置文件", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Backend != BackendSQLite && cfg.Storage.Backend != BackendJSON {
		return nil, fmt.Errorf("未知存储后端 %q（可选 sqlite / json）", cfg.Storage.Backend)
	}

	// 处理相对路径
	cfg.Storage.DBPath = resolvePath(cfg.Storage.DBPath)
	cfg.Storage.DataDir = resolvePath(cfg.Storage.DataDir)

	return &cfg, nil
}

// Default 默认配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "water-buddy")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "warn")

	// Storage
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.db_path", "./data/water_buddy.db")
	v.SetDefault("storage.data_dir", "./data/json")

	// Goal
	v.SetDefault("goal.default_ml", 2000)
	v.SetDefault("goal.use_weather", false)
	v.SetDefault("goal.weather_temp_c", 0)

	// Eco
	v.SetDefault("eco.bottle_size_ml", 500)

	// Reminder
	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.interval_min", 60)

	// Watch
	v.SetDefault("watch.debounce_ms", 300)
}

// resolvePath 解析相对路径为绝对路径（相对可执行文件目录）
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	exe, err := os.Executable()
	if err != nil {
		return path
	}

	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, path)
}

// SetupLogger 根据配置设置日志级别；日志写到 stderr，不干扰命令输出
func SetupLogger(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
