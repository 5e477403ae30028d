package eventbus

import (
	"context"
	"sync"
	"time"
)

// 事件类型
const (
	TypeIntakeLogged = "intake_logged"
	TypeBadgeEarned  = "badge_earned"
	TypeProfileSaved = "profile_saved"
	TypeStoreChanged = "store_changed"
	TypeReminder     = "reminder"
)

type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// IntakeLogged 新增一次饮水
func IntakeLogged(amountML int, at time.Time) Event {
	return Event{Type: TypeIntakeLogged, Timestamp: at.UnixMilli(), Data: map[string]any{"amount_ml": amountML}}
}

// BadgeEarned 获得徽章
func BadgeEarned(name string, at time.Time) Event {
	return Event{Type: TypeBadgeEarned, Timestamp: at.UnixMilli(), Data: map[string]any{"badge": name}}
}

// ProfileSaved 档案已保存
func ProfileSaved(name string, at time.Time) Event {
	return Event{Type: TypeProfileSaved, Timestamp: at.UnixMilli(), Data: map[string]any{"name": name}}
}

// StoreChanged 数据文件在磁盘上发生变化（可能来自其他进程）
func StoreChanged(files []string) Event {
	return Event{Type: TypeStoreChanged, Data: map[string]any{"files": files}}
}

// Reminder 到点提醒；nudge 表示落后于目标
func Reminder(adjustment float64, nudge bool) Event {
	return Event{Type: TypeReminder, Data: map[string]any{"adjustment": adjustment, "nudge": nudge}}
}

// Files store_changed 事件中的文件列表
func (e Event) Files() []string {
	files, _ := e.Data["files"].([]string)
	return files
}

// subscription 订阅者；types 为空表示接收全部类型
type subscription struct {
	types map[string]struct{}
}

func (s subscription) accepts(typ string) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[typ]
	return ok
}

// Hub 进程内事件总线：服务层发布，CLI 的 watch/remind 订阅
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]subscription)}
}

// Publish 非阻塞投递；nil Hub 直接忽略
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, sub := range h.subs {
		if !sub.accepts(evt.Type) {
			continue
		}
		select {
		case ch <- evt:
		default:
			// 慢消费者直接丢弃，看板下一次刷新会补上
		}
	}
}

// Subscribe 订阅全部事件，ctx 结束时取消订阅并关闭通道
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan Event {
	return h.SubscribeTypes(ctx, buffer)
}

// SubscribeTypes 只订阅指定类型的事件
func (h *Hub) SubscribeTypes(ctx context.Context, buffer int, types ...string) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	sub := subscription{}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	h.mu.Lock()
	h.subs[ch] = sub
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}
