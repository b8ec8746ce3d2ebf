package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/halgrim/quest-guide/pkg/session"
	"github.com/halgrim/quest-guide/pkg/zone"
)

const testQuestJSON = `{
  "name": "Test Quest",
  "progress": {"varbit": 100, "complete": 10},
  "steps": {"start": {"text": "Get going."}},
  "sequence": {"0": "start"}
}`

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	dataDir := t.TempDir()
	questsDir := filepath.Join(dataDir, "quests")
	if err := os.MkdirAll(questsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(questsDir, "test_quest.json"), []byte(testQuestJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	store := NewRedisStorage(mr.Addr(), dataDir, time.Hour, logger)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	})
	return store, mr
}

func TestRedisStorageSessions(t *testing.T) {
	store, mr := setupTestStorage(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	s := session.New("test_quest.json", "Test Quest")
	s.Snapshot.Position = zone.NewWorldPoint(3222, 3218, 0)
	s.Snapshot.Varbits[100] = 5

	if err := store.SaveSession(ctx, s); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	loaded, err := store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected session, got nil")
	}
	if loaded.QuestFile != "test_quest.json" {
		t.Errorf("QuestFile = %q, want %q", loaded.QuestFile, "test_quest.json")
	}
	if loaded.Snapshot == nil || loaded.Snapshot.Varbits[100] != 5 {
		t.Error("snapshot did not round-trip")
	}
	if loaded.Snapshot.Position != s.Snapshot.Position {
		t.Errorf("Position = %v, want %v", loaded.Snapshot.Position, s.Snapshot.Position)
	}

	// Sessions expire
	if ttl := mr.TTL("session:" + s.ID.String()); ttl != time.Hour {
		t.Errorf("session TTL = %v, want %v", ttl, time.Hour)
	}

	if err := store.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	loaded, err = store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("LoadSession after delete failed: %v", err)
	}
	if loaded != nil {
		t.Error("deleted session should load as nil")
	}
}

func TestRedisStorageLoadMissingSession(t *testing.T) {
	store, _ := setupTestStorage(t)

	loaded, err := store.LoadSession(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded != nil {
		t.Error("missing session should load as nil, nil")
	}
}

func TestRedisStorageQuests(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()

	quests, err := store.ListQuests(ctx)
	if err != nil {
		t.Fatalf("ListQuests failed: %v", err)
	}
	if quests["Test Quest"] != "test_quest.json" {
		t.Errorf("ListQuests() = %v, want Test Quest -> test_quest.json", quests)
	}

	def, err := store.GetQuestDefinition(ctx, "test_quest.json")
	if err != nil {
		t.Fatalf("GetQuestDefinition failed: %v", err)
	}
	if def.Name != "Test Quest" {
		t.Errorf("definition name = %q, want %q", def.Name, "Test Quest")
	}
	if def.FileName != "test_quest.json" {
		t.Errorf("definition filename = %q, want %q", def.FileName, "test_quest.json")
	}

	q, err := store.GetQuest(ctx, "test_quest.json")
	if err != nil {
		t.Fatalf("GetQuest failed: %v", err)
	}
	if q.Name != "Test Quest" {
		t.Errorf("compiled quest name = %q, want %q", q.Name, "Test Quest")
	}

	if _, err := store.GetQuest(ctx, "nope.json"); err == nil {
		t.Error("expected error for missing quest file")
	}
}
