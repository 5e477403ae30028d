package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/yuqie6/WaterBuddy/internal/schema"
	"github.com/yuqie6/WaterBuddy/internal/testutil"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return newSQLStore(&Database{DB: testutil.OpenTestDB(t)})
}

func TestSQLStoreEventsSortedAndMalformedSkipped(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := store.AppendEvent(ctx, 250, now); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if _, err := store.AppendEvent(ctx, 100, now.Add(-time.Hour)); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if err := store.intakes.Create(ctx, &schema.IntakeLog{LoggedAt: "not-a-time", AmountML: 999}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	events, err := store.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 2 || events[0].AmountML != 100 || events[1].AmountML != 250 {
		t.Fatalf("events=%v", events)
	}

	var count int64
	if err := store.db.DB.Model(&schema.IntakeLog{}).Count(&count).Error; err != nil || count != 3 {
		t.Fatalf("stored rows=%d err=%v, want 3", count, err)
	}
}

func TestSQLStoreSkipsNonPositiveAmounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	ts := schema.FormatLoggedAt(time.Now())

	for _, amount := range []int{0, -50, 200} {
		if err := store.intakes.Create(ctx, &schema.IntakeLog{LoggedAt: ts, AmountML: amount}); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	events, err := store.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 || events[0].AmountML != 200 {
		t.Fatalf("events=%v, want only the 200 ml row", events)
	}
}

func TestSQLStoreDuplicateEventsAllowed(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	ts := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := store.AppendEvent(ctx, 50, ts); err != nil {
			t.Fatalf("AppendEvent error: %v", err)
		}
	}
	events, _ := store.ListEvents(ctx)
	if len(events) != 2 {
		t.Fatalf("len=%d, want 2", len(events))
	}
}

func TestSQLStoreProfileLatestWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.GetProfile(ctx)
	if err != nil || got != nil {
		t.Fatalf("empty profile got=%v err=%v", got, err)
	}

	first := &schema.Profile{Name: "A", Age: 30, WeightKg: 70, Activity: schema.ActivityNormal, CreatedAt: time.Now()}
	second := &schema.Profile{Name: "B", Age: 31, WeightKg: 72, Activity: schema.ActivityHigh, CreatedAt: time.Now()}
	if err := store.SetProfile(ctx, first); err != nil {
		t.Fatalf("SetProfile error: %v", err)
	}
	if err := store.SetProfile(ctx, second); err != nil {
		t.Fatalf("SetProfile error: %v", err)
	}

	got, err = store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if got.Name != "B" || got.Activity != schema.ActivityHigh || got.WeightKg != 72 {
		t.Fatalf("profile=%+v, want B", got)
	}
}

func TestSQLStoreAddBadgeIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	added, err := store.AddBadge(ctx, schema.BadgeFirstLog, now)
	if err != nil || !added {
		t.Fatalf("first add added=%v err=%v", added, err)
	}
	added, err = store.AddBadge(ctx, schema.BadgeFirstLog, now.Add(time.Hour))
	if err != nil || added {
		t.Fatalf("second add added=%v err=%v, want false", added, err)
	}

	badges, err := store.GetBadges(ctx)
	if err != nil || len(badges) != 1 {
		t.Fatalf("badges=%v err=%v", badges, err)
	}
}

func TestNewSQLStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "buddy.db")
	store, err := NewSQLStore(path)
	if err != nil {
		t.Fatalf("NewSQLStore error: %v", err)
	}
	if store.db.SchemaVersion != latestSchemaVersion {
		t.Fatalf("schema version=%d", store.db.SchemaVersion)
	}
	ctx := context.Background()
	if _, err := store.AppendEvent(ctx, 300, time.Now()); err != nil {
		t.Fatalf("AppendEvent error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// 重新打开后数据仍在，迁移不重复执行
	store, err = NewSQLStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer store.Close()
	events, err := store.ListEvents(ctx)
	if err != nil || len(events) != 1 || events[0].AmountML != 300 {
		t.Fatalf("events=%v err=%v", events, err)
	}
}
