package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
)

func TestJSONStoreEmptyDir(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewJSONStore error: %v", err)
	}
	ctx := context.Background()

	events, err := store.ListEvents(ctx)
	if err != nil || len(events) != 0 {
		t.Fatalf("events=%v err=%v", events, err)
	}
	profile, err := store.GetProfile(ctx)
	if err != nil || profile != nil {
		t.Fatalf("profile=%v err=%v", profile, err)
	}
	badges, err := store.GetBadges(ctx)
	if err != nil || len(badges) != 0 {
		t.Fatalf("badges=%v err=%v", badges, err)
	}
}

func TestJSONStoreCorruptFilesReadAsEmpty(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{ProfileFile, LogsFile, BadgesFile} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, _ := NewJSONStore(dir)
	ctx := context.Background()

	if events, err := store.ListEvents(ctx); err != nil || len(events) != 0 {
		t.Fatalf("events=%v err=%v", events, err)
	}
	if p, err := store.GetProfile(ctx); err != nil || p != nil {
		t.Fatalf("profile=%v err=%v", p, err)
	}
	if badges, err := store.GetBadges(ctx); err != nil || len(badges) != 0 {
		t.Fatalf("badges=%v err=%v", badges, err)
	}
}

// backupOf 返回 name 的损坏备份内容，没有备份时 t.Fatal
func backupOf(t *testing.T, dir, name string) []byte {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, name+corruptSuffix+"*"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("backups of %s=%v err=%v, want 1", name, matches, err)
	}
	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestJSONStoreCorruptLogsKeptOnAppend(t *testing.T) {
	dir := t.TempDir()
	original := []byte(`[{"logged_at":"2025-01-02T08:00:00Z","amount_ml":250}`)
	if err := os.WriteFile(filepath.Join(dir, LogsFile), original, 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)
	ctx := context.Background()

	if _, err := store.AppendEvent(ctx, 200, time.Now()); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if events, _ := store.ListEvents(ctx); len(events) != 1 || events[0].AmountML != 200 {
		t.Fatalf("events=%v, want the new 200 ml event", events)
	}
	if got := backupOf(t, dir, LogsFile); !bytes.Equal(got, original) {
		t.Fatalf("backup=%q, want original bytes", got)
	}
}

func TestJSONStoreCorruptBadgesKeptOnAdd(t *testing.T) {
	dir := t.TempDir()
	original := []byte(`[{"name":"first-log","earned_at":`)
	if err := os.WriteFile(filepath.Join(dir, BadgesFile), original, 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)

	added, err := store.AddBadge(context.Background(), schema.BadgeFirstLog, time.Now())
	if err != nil || !added {
		t.Fatalf("added=%v err=%v", added, err)
	}
	if got := backupOf(t, dir, BadgesFile); !bytes.Equal(got, original) {
		t.Fatalf("backup=%q, want original bytes", got)
	}
}

func TestJSONStoreCorruptProfileKeptOnSet(t *testing.T) {
	dir := t.TempDir()
	original := []byte(`{"name":"A","age":`)
	if err := os.WriteFile(filepath.Join(dir, ProfileFile), original, 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)
	ctx := context.Background()

	p := &schema.Profile{Name: "B", Age: 40, WeightKg: 60, Activity: schema.ActivityNormal}
	if err := store.SetProfile(ctx, p); err != nil {
		t.Fatalf("SetProfile error: %v", err)
	}
	if got, _ := store.GetProfile(ctx); got == nil || got.Name != "B" {
		t.Fatalf("profile=%+v", got)
	}
	if got := backupOf(t, dir, ProfileFile); !bytes.Equal(got, original) {
		t.Fatalf("backup=%q, want original bytes", got)
	}
}

func TestJSONStoreSkipsInvalidRecords(t *testing.T) {
	dir := t.TempDir()
	raw := `[
  {"logged_at": "2025-01-02T08:00:00Z", "amount_ml": "300"},
  {"logged_at": "2025-01-02T09:00:00Z", "amount_ml": 0},
  {"logged_at": "2025-01-02T10:00:00Z", "amount_ml": -20},
  null,
  {"logged_at": "2025-01-02T11:00:00Z", "amount_ml": 250}
]`
	if err := os.WriteFile(filepath.Join(dir, LogsFile), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)
	ctx := context.Background()

	events, err := store.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 || events[0].AmountML != 250 {
		t.Fatalf("events=%v, want only the 250 ml record", events)
	}

	// 追加时读不懂的记录原样保留
	if _, err := store.AppendEvent(ctx, 100, time.Now()); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, LogsFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte(`"300"`)) {
		t.Fatalf("mismatched record rewritten: %s", b)
	}
	if events, _ := store.ListEvents(ctx); len(events) != 2 {
		t.Fatalf("events=%v, want 2", events)
	}
}

func TestJSONStoreDuplicateIDsCountedOnce(t *testing.T) {
	dir := t.TempDir()
	raw := `[
  {"id": "a1", "logged_at": "2025-01-02T08:00:00Z", "amount_ml": 250},
  {"id": "a1", "logged_at": "2025-01-02T08:00:00Z", "amount_ml": 250},
  {"logged_at": "2025-01-02T09:00:00Z", "amount_ml": 100},
  {"logged_at": "2025-01-02T09:00:00Z", "amount_ml": 100}
]`
	if err := os.WriteFile(filepath.Join(dir, LogsFile), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)

	events, err := store.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	// 无 id 的旧记录不去重
	if len(events) != 3 {
		t.Fatalf("events=%v, want 3", events)
	}
}

func TestJSONStoreAppendAssignsDistinctIDs(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewJSONStore(dir)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := store.AppendEvent(ctx, 250, now); err != nil {
			t.Fatalf("AppendEvent error: %v", err)
		}
	}
	var records []jsonIntakeRecord
	b, _ := os.ReadFile(filepath.Join(dir, LogsFile))
	if err := json.Unmarshal(b, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID == "" || records[0].ID == records[1].ID {
		t.Fatalf("records=%+v", records)
	}
	if events, _ := store.ListEvents(ctx); len(events) != 2 {
		t.Fatalf("identical events at the same instant must both count: %v", events)
	}
}

func TestJSONStoreInvalidProfileReadsAsNone(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, `{"name":"A","age":0,"weight_kg":70}`, `{"name":"A","age":30,"weight_kg":0}`} {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ProfileFile), []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
		store, _ := NewJSONStore(dir)
		p, err := store.GetProfile(context.Background())
		if err != nil || p != nil {
			t.Fatalf("%s: profile=%+v err=%v, want none", raw, p, err)
		}
	}
}

func TestJSONStoreSkipsMalformedTimestamps(t *testing.T) {
	dir := t.TempDir()
	raw := `[
  {"logged_at": "2025-01-02T08:00:00Z", "amount_ml": 250},
  {"logged_at": "garbage", "amount_ml": 999},
  {"logged_at": "2025-01-01T08:00:00.5", "amount_ml": 100}
]`
	if err := os.WriteFile(filepath.Join(dir, LogsFile), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewJSONStore(dir)

	events, err := store.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 2 || events[0].AmountML != 100 || events[1].AmountML != 250 {
		t.Fatalf("events=%v", events)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewJSONStore(dir)
	ctx := context.Background()
	now := time.Now()

	if _, err := store.AppendEvent(ctx, 500, now); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	p := &schema.Profile{Name: "A", Age: 30, WeightKg: 70.5, Activity: schema.ActivityLow, CreatedAt: now}
	if err := store.SetProfile(ctx, p); err != nil {
		t.Fatalf("SetProfile error: %v", err)
	}
	p2 := &schema.Profile{Name: "B", Age: 44, WeightKg: 80, Activity: schema.ActivityHigh, CreatedAt: now}
	if err := store.SetProfile(ctx, p2); err != nil {
		t.Fatalf("SetProfile error: %v", err)
	}

	reopened, _ := NewJSONStore(dir)
	got, err := reopened.GetProfile(ctx)
	if err != nil || got == nil || got.Name != "B" || got.WeightKg != 80 {
		t.Fatalf("profile=%+v err=%v", got, err)
	}
	events, _ := reopened.ListEvents(ctx)
	if len(events) != 1 || !events[0].LoggedAt.Equal(now) {
		t.Fatalf("events=%v", events)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestJSONStoreAddBadgeIdempotent(t *testing.T) {
	store, _ := NewJSONStore(t.TempDir())
	ctx := context.Background()

	added, err := store.AddBadge(ctx, schema.BadgeFirstLog, time.Now())
	if err != nil || !added {
		t.Fatalf("added=%v err=%v", added, err)
	}
	added, err = store.AddBadge(ctx, schema.BadgeFirstLog, time.Now())
	if err != nil || added {
		t.Fatalf("second added=%v err=%v", added, err)
	}
	badges, _ := store.GetBadges(ctx)
	if len(badges) != 1 {
		t.Fatalf("badges=%v", badges)
	}
}
