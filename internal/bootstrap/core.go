package bootstrap

import (
	"fmt"
	"path/filepath"

	"github.com/yuqie6/WaterBuddy/internal/eventbus"
	"github.com/yuqie6/WaterBuddy/internal/pkg/config"
	"github.com/yuqie6/WaterBuddy/internal/repository"
	"github.com/yuqie6/WaterBuddy/internal/service"
)

// Core 持有 CLI 各子命令共享的核心依赖
type Core struct {
	Cfg   *config.Config
	Store service.Store
	Hub   *eventbus.Hub

	Services struct {
		Hydration *service.HydrationService
	}
}

// NewCore 加载配置并按 storage.backend 打开存储
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)
	return NewCoreWithConfig(cfg)
}

// NewCoreWithConfig 使用已有配置构建核心依赖
func NewCoreWithConfig(cfg *config.Config) (*Core, error) {
	store, err := OpenStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, Store: store, Hub: eventbus.NewHub()}
	c.Services.Hydration = service.NewHydrationService(store, c.Hub, &service.HydrationConfig{
		DefaultGoalML: cfg.Goal.DefaultML,
		BottleSizeML:  cfg.Eco.BottleSizeML,
		WeatherTempC:  cfg.Goal.WeatherTemp(),
	})
	return c, nil
}

// OpenStore 选择存储后端
func OpenStore(cfg config.StorageConfig) (service.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return repository.NewSQLStore(cfg.DBPath)
	case config.BackendJSON:
		return repository.NewJSONStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("未知存储后端 %q", cfg.Backend)
	}
}

// WatchTarget 存储在磁盘上的目录与需要关注的文件
func (c *Core) WatchTarget() (dir string, files []string) {
	if c.Cfg.Storage.Backend == config.BackendJSON {
		return c.Cfg.Storage.DataDir, []string{repository.ProfileFile, repository.LogsFile, repository.BadgesFile}
	}
	return filepath.Dir(c.Cfg.Storage.DBPath), []string{filepath.Base(c.Cfg.Storage.DBPath)}
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
