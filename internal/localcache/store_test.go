// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package localcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/moodboard/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cacheItem(id string) models.ContentItem {
	it := models.ContentItem{
		ID:        id,
		ImageURL:  "https://cdn.example.com/" + id + ".jpg",
		Title:     "Item " + id,
		Tags:      []string{"calm", "pastel"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	it.Normalize()
	return it
}

func TestStore_AppendAll(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	// More than one sequence lease and more than nine entries, so key
	// padding decides the order.
	want := make([]string, 0, 150)
	for i := range 150 {
		id := fmt.Sprintf("it-%d", i)
		if err := s.Append(ctx, cacheItem(id)); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
		want = append(want, id)
	}

	got, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("All()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
	if s.Len() != 150 {
		t.Errorf("Len() = %d, want 150", s.Len())
	}
	if got[0].Tags[1] != "pastel" || !got[0].CreatedAt.Equal(cacheItem("x").CreatedAt) {
		t.Errorf("item not round-tripped: %+v", got[0])
	}
}

func TestStore_Get(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	first := cacheItem("a")
	second := cacheItem("a")
	second.Title = "Updated"

	for _, it := range []models.ContentItem{first, cacheItem("b"), second} {
		if err := s.Append(ctx, it); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Get() title = %q, want latest append", got.Title)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All() len = %d, want 3 (append-only)", len(all))
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_AppendValidation(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	if err := s.Append(context.Background(), models.ContentItem{}); !errors.Is(err, models.ErrInvalidItem) {
		t.Errorf("Append(no id) error = %v, want ErrInvalidItem", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Append(ctx, cacheItem("a")); !errors.Is(err, context.Canceled) {
		t.Errorf("Append(canceled) error = %v, want context.Canceled", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 25 {
				if err := s.Append(ctx, cacheItem(fmt.Sprintf("w%d-%d", w, i))); err != nil {
					t.Errorf("Append() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 200 || s.Len() != 200 {
		t.Errorf("len(All()) = %d, Len() = %d, want 200", len(all), s.Len())
	}
}

func TestStore_Persistence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if err := s.Append(ctx, cacheItem(id)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 2 {
		t.Errorf("Len() after reopen = %d, want 2", reopened.Len())
	}
	if err := reopened.Append(ctx, cacheItem("c")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	all, err := reopened.All(ctx)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 3 || all[2].ID != "c" {
		t.Errorf("All() = %v, want c appended last", all)
	}
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if err := s.Append(ctx, cacheItem("a")); !errors.Is(err, ErrClosed) {
		t.Errorf("Append() error = %v, want ErrClosed", err)
	}
	if _, err := s.All(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("All() error = %v, want ErrClosed", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
}

func TestOpen_RequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{}); err == nil {
		t.Error("Open() without dir = nil error, want error")
	}
}

func TestItemKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seq  uint64
		id   string
		want string
	}{
		{0, "a", "item:00000000000000000000:a"},
		{42, "x:y", "item:00000000000000000042:x:y"},
		{18446744073709551615, "max", "item:18446744073709551615:max"},
	}
	for _, tt := range tests {
		if got := string(itemKey(tt.seq, tt.id)); got != tt.want {
			t.Errorf("itemKey(%d, %q) = %q, want %q", tt.seq, tt.id, got, tt.want)
		}
	}
}

func TestGCLoop(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{Dir: t.TempDir(), GCInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	loop := NewGCLoop(s)
	if err := loop.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !loop.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for loop.LastRun().IsZero() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if loop.LastRun().IsZero() {
		t.Error("GC never ran")
	}

	loop.Stop()
	loop.Stop()
	if loop.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestGCLoop_DefaultInterval(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if got := NewGCLoop(s).interval; got != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", got)
	}
}
