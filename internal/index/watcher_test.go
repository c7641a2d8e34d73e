package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/vault"
)

const watchedDoc = `---
date: 2026-01-15
title: Standup
source: granola
granola_id: doc-w
duration_minutes: 0
entry_count: 1
processed: false
---

## Transcript

hello
`

// watcherTestEnv sets up a vault dir, provider, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, vault.Provider, *DB) {
	t.Helper()
	vaultDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(vaultDir, "transcripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	store, err := vault.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	dbFile, err := os.CreateTemp("", "ansuz-watcher-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return vaultDir, store, db
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileCataloged(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, vaultDir, "transcripts", logger, func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(vaultDir, "transcripts", "new.md"), []byte(watchedDoc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		row, _ := db.Get("transcripts/new.md")
		return row != nil && row.GranolaID == "doc-w"
	}, "new file not cataloged by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:transcripts/new.md" {
				return true
			}
		}
		return false
	}, "expected created:transcripts/new.md callback")
}

func TestWatcher_DeleteRemovesFromCatalog(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(vaultDir, "transcripts", "del.md"), []byte(watchedDoc), 0o644)
	if err := Resync(db, store, "transcripts", logger); err != nil {
		t.Fatal(err)
	}
	if row, _ := db.Get("transcripts/del.md"); row == nil {
		t.Fatal("precondition: file should be cataloged")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, vaultDir, "transcripts", logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Remove(filepath.Join(vaultDir, "transcripts", "del.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		row, _ := db.Get("transcripts/del.md")
		return row == nil
	}, "deleted file still in catalog")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	vaultDir, store, db := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_ = os.WriteFile(filepath.Join(vaultDir, "transcripts", "old.md"), []byte(watchedDoc), 0o644)
	if err := Resync(db, store, "transcripts", logger); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, vaultDir, "transcripts", logger, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.Rename(
		filepath.Join(vaultDir, "transcripts", "old.md"),
		filepath.Join(vaultDir, "transcripts", "renamed.md"),
	)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldRow, _ := db.Get("transcripts/old.md")
		newRow, _ := db.Get("transcripts/renamed.md")
		return oldRow == nil && newRow != nil
	}, "rename reconciliation failed: old path should be removed and new path cataloged")
}
