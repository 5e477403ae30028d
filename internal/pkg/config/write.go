package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath 可执行文件旁的 config/config.yaml
func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, "config", "config.yaml"), nil
}

// WriteFile 将配置写为 YAML
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"version":   cfg.App.Version,
			"log_level": cfg.App.LogLevel,
		},
		"storage": map[string]any{
			"backend":  cfg.Storage.Backend,
			"db_path":  cfg.Storage.DBPath,
			"data_dir": cfg.Storage.DataDir,
		},
		"goal": map[string]any{
			"default_ml":     cfg.Goal.DefaultML,
			"use_weather":    cfg.Goal.UseWeather,
			"weather_temp_c": cfg.Goal.WeatherTempC,
		},
		"eco": map[string]any{
			"bottle_size_ml": cfg.Eco.BottleSizeML,
		},
		"reminder": map[string]any{
			"enabled":      cfg.Reminder.Enabled,
			"interval_min": cfg.Reminder.IntervalMin,
		},
		"watch": map[string]any{
			"debounce_ms": cfg.Watch.DebounceMs,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
