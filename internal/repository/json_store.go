package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yuqie6/WaterBuddy/internal/schema"
)

// JSON 后端的文件名
const (
	ProfileFile = "profile.json"
	LogsFile    = "logs.json"
	BadgesFile  = "badges.json"
)

// corruptSuffix 损坏文件被移到 <name>.corrupt-<unixnano>
const corruptSuffix = ".corrupt-"

// jsonIntakeRecord logs.json 中的一条记录
// ID 在追加时生成，同一 ID 出现多次（例如手工合并了两份文件）只计一次
type jsonIntakeRecord struct {
	ID       string `json:"id,omitempty"`
	LoggedAt string `json:"logged_at"`
	AmountML int    `json:"amount_ml"`
}

// jsonBadgeRecord badges.json 中的一条记录
type jsonBadgeRecord struct {
	Name     string `json:"name"`
	EarnedAt string `json:"earned_at"`
}

type fileState int

const (
	fileMissing fileState = iota
	fileOK
	fileCorrupt
	fileUnreadable
)

// JSONStore 基于本地 JSON 文件的存储后端
// 读取时文件缺失或损坏视为空；写入前先把损坏的文件挪走，不覆盖原内容
// 多进程并发写时后写者覆盖
type JSONStore struct {
	dir string
}

// NewJSONStore 创建 JSON 存储，目录不存在时自动创建
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	slog.Info("JSON 存储初始化成功", "dir", dir)
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *JSONStore) AppendEvent(ctx context.Context, amountML int, loggedAt time.Time) (schema.IntakeEvent, error) {
	raws, err := s.loadForWrite(LogsFile)
	if err != nil {
		return schema.IntakeEvent{}, err
	}

	rec, err := json.Marshal(jsonIntakeRecord{
		ID:       uuid.NewString(),
		LoggedAt: schema.FormatLoggedAt(loggedAt),
		AmountML: amountML,
	})
	if err != nil {
		return schema.IntakeEvent{}, fmt.Errorf("序列化饮水记录失败: %w", err)
	}
	// 已有记录原样保留，包括本次读不懂的
	raws = append(raws, rec)
	if err := s.writeFile(LogsFile, raws); err != nil {
		return schema.IntakeEvent{}, fmt.Errorf("写入饮水记录失败: %w", err)
	}
	return schema.IntakeEvent{LoggedAt: loggedAt, AmountML: amountML}, nil
}

func (s *JSONStore) ListEvents(ctx context.Context) ([]schema.IntakeEvent, error) {
	raws, _ := s.readRecords(LogsFile)

	rows := make([]schema.IntakeLog, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		var r jsonIntakeRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			slog.Warn("跳过无法解析的饮水记录", "file", LogsFile, "index", i, "error", err)
			continue
		}
		if r.ID != "" {
			if _, dup := seen[r.ID]; dup {
				slog.Warn("跳过重复的饮水记录", "id", r.ID)
				continue
			}
			seen[r.ID] = struct{}{}
		}
		rows = append(rows, schema.IntakeLog{LoggedAt: r.LoggedAt, AmountML: r.AmountML})
	}
	return toEvents(rows), nil
}

func (s *JSONStore) GetProfile(ctx context.Context) (*schema.Profile, error) {
	var profile schema.Profile
	if s.readFile(ProfileFile, &profile) != fileOK {
		return nil, nil
	}
	// {} 或 null 解析不报错，但不是可用的档案
	if profile.Age <= 0 || profile.WeightKg <= 0 {
		slog.Warn("档案字段无效，按无档案处理", "file", ProfileFile, "age", profile.Age, "weight_kg", profile.WeightKg)
		return nil, nil
	}
	return &profile, nil
}

func (s *JSONStore) SetProfile(ctx context.Context, profile *schema.Profile) error {
	var existing schema.Profile
	switch s.readFile(ProfileFile, &existing) {
	case fileUnreadable:
		return fmt.Errorf("读取数据文件失败: %s", ProfileFile)
	case fileCorrupt:
		if err := s.moveAside(ProfileFile); err != nil {
			return err
		}
	}
	if err := s.writeFile(ProfileFile, profile); err != nil {
		return fmt.Errorf("保存档案失败: %w", err)
	}
	return nil
}

func (s *JSONStore) GetBadges(ctx context.Context) ([]schema.Badge, error) {
	raws, _ := s.readRecords(BadgesFile)

	badges := make([]schema.Badge, 0, len(raws))
	for _, raw := range raws {
		r, ok := decodeBadge(raw)
		if !ok {
			continue
		}
		earned, err := schema.ParseLoggedAt(r.EarnedAt)
		if err != nil {
			slog.Warn("跳过无法解析的徽章记录", "name", r.Name, "error", err)
			continue
		}
		badges = append(badges, schema.Badge{Name: r.Name, EarnedAt: earned})
	}
	return badges, nil
}

func (s *JSONStore) AddBadge(ctx context.Context, name string, earnedAt time.Time) (bool, error) {
	raws, err := s.loadForWrite(BadgesFile)
	if err != nil {
		return false, err
	}

	for _, raw := range raws {
		if r, ok := decodeBadge(raw); ok && r.Name == name {
			return false, nil
		}
	}
	rec, err := json.Marshal(jsonBadgeRecord{Name: name, EarnedAt: schema.FormatLoggedAt(earnedAt)})
	if err != nil {
		return false, fmt.Errorf("序列化徽章失败: %w", err)
	}
	raws = append(raws, rec)
	if err := s.writeFile(BadgesFile, raws); err != nil {
		return false, fmt.Errorf("写入徽章失败: %w", err)
	}
	return true, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func decodeBadge(raw json.RawMessage) (jsonBadgeRecord, bool) {
	var r jsonBadgeRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		slog.Warn("跳过无法解析的徽章记录", "file", BadgesFile, "error", err)
		return r, false
	}
	if r.Name == "" {
		return r, false
	}
	return r, true
}

// readRecords 读取数组文件，每条记录保持原始字节，逐条解析由调用方负责
func (s *JSONStore) readRecords(name string) ([]json.RawMessage, fileState) {
	var raws []json.RawMessage
	state := s.readFile(name, &raws)
	if state != fileOK {
		return nil, state
	}
	return raws, state
}

// loadForWrite 读取待追加的数组文件；整体无法解析时先移走原文件再从空数组开始
func (s *JSONStore) loadForWrite(name string) ([]json.RawMessage, error) {
	raws, state := s.readRecords(name)
	switch state {
	case fileUnreadable:
		return nil, fmt.Errorf("读取数据文件失败: %s", name)
	case fileCorrupt:
		if err := s.moveAside(name); err != nil {
			return nil, err
		}
	}
	return raws, nil
}

// moveAside 把损坏的文件改名保留，供人工恢复
func (s *JSONStore) moveAside(name string) error {
	dst := name + corruptSuffix + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.Rename(s.path(name), s.path(dst)); err != nil {
		return fmt.Errorf("备份损坏的数据文件失败: %w", err)
	}
	slog.Warn("数据文件损坏，已备份后重新写入", "file", name, "backup", dst)
	return nil
}

// readFile 读取并解析文件；缺失或为空返回 fileMissing，无法解析返回 fileCorrupt
func (s *JSONStore) readFile(name string, out any) fileState {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileMissing
		}
		slog.Warn("读取数据文件失败，按空数据处理", "file", name, "error", err)
		return fileUnreadable
	}
	if len(b) == 0 {
		return fileMissing
	}
	if err := json.Unmarshal(b, out); err != nil {
		slog.Warn("解析数据文件失败，按空数据处理", "file", name, "error", err)
		return fileCorrupt
	}
	return fileOK
}

// writeFile 先写临时文件再 rename，避免留下半截文件
func (s *JSONStore) writeFile(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("替换数据文件失败: %w", err)
	}
	return nil
}
