package collector

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yuqie6/WaterBuddy/internal/eventbus"
)

// StoreWatcher 监听存储文件变化，防抖后向 Hub 发布 store_changed
// 用于另一个进程写入数据后刷新看板
type StoreWatcher struct {
	watcher  *fsnotify.Watcher
	hub      *eventbus.Hub
	dir      string
	files    map[string]bool
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	pending  []string
	running  bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// StoreWatcherConfig 配置
type StoreWatcherConfig struct {
	Dir        string   // 监听的目录
	Files      []string // 关心的文件名；为空表示目录下所有文件
	DebounceMs int
}

// NewStoreWatcher 创建存储监听器
func NewStoreWatcher(cfg StoreWatcherConfig, hub *eventbus.Hub) (*StoreWatcher, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub 不能为空")
	}
	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("获取绝对路径失败: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}
	if err := watcher.Add(absDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("添加监控目录失败: %w", err)
	}

	files := make(map[string]bool, len(cfg.Files))
	for _, f := range cfg.Files {
		files[f] = true
	}
	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	return &StoreWatcher{
		watcher:  watcher,
		hub:      hub,
		dir:      absDir,
		files:    files,
		debounce: debounce,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start 启动监听
func (w *StoreWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	slog.Info("存储监听启动", "dir", w.dir)
	go w.watchLoop(ctx)
}

// Stop 停止监听
func (w *StoreWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()

		w.mu.Lock()
		running := w.running
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		if running {
			<-w.done
		}
		slog.Info("存储监听已停止")
	})
	return err
}

func (w *StoreWatcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("文件监控错误", "error", err)
		}
	}
}

// handleFsEvent 过滤无关文件，并在静默 debounce 之后合并发布一次
func (w *StoreWatcher) handleFsEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	name := filepath.Base(event.Name)
	if !w.relevant(name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = appendUnique(w.pending, name)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *StoreWatcher) flush() {
	w.mu.Lock()
	files := w.pending
	w.pending = nil
	w.mu.Unlock()
	if len(files) == 0 {
		return
	}

	slog.Debug("存储已变化", "files", files)
	w.hub.Publish(eventbus.StoreChanged(files))
}

func (w *StoreWatcher) relevant(name string) bool {
	if strings.HasSuffix(name, ".tmp") {
		return false
	}
	if len(w.files) == 0 {
		return true
	}
	if w.files[name] {
		return true
	}
	// SQLite WAL 模式下写入先落到 -wal 文件
	for f := range w.files {
		if strings.HasPrefix(name, f+"-") {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
