// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/pageforge/internal/model"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want value", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("value"), 0)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after delete error = %v, want ErrCacheMiss", err)
	}

	// Deleting an absent key is not an error.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if _, err := c.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%q) after clear error = %v, want ErrCacheMiss", key, err)
		}
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice is safe.
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get on closed cache error = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "key", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set on closed cache error = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	original := []byte("value")
	_ = c.Set(ctx, "key", original, 0)
	original[0] = 'X'

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("cached value mutated via caller slice: %q", got)
	}

	got[0] = 'Y'
	again, _ := c.Get(ctx, "key")
	if string(again) != "value" {
		t.Errorf("cached value mutated via returned slice: %q", again)
	}
}

func TestPageCache(t *testing.T) {
	backend := NewMemoryCache(time.Minute)
	pages := NewPageCache(backend, time.Minute)
	defer func() { _ = pages.Close() }()
	ctx := context.Background()

	doc := &model.PageDocument{
		PageID:  "landing-abc12345",
		Version: 3,
		Sections: []model.Section{
			{ID: "hero-1", Type: model.SectionHero, Order: 0, Data: json.RawMessage(`{"headline":"Hi"}`)},
		},
		Published: true,
	}

	if _, ok := pages.Get(ctx, doc.PageID); ok {
		t.Fatal("unexpected hit before Set")
	}

	pages.Set(ctx, doc)
	got, ok := pages.Get(ctx, doc.PageID)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.PageID != doc.PageID || got.Version != 3 || !got.Published {
		t.Errorf("got %+v", got)
	}
	if len(got.Sections) != 1 || got.Sections[0].ID != "hero-1" {
		t.Errorf("sections = %+v", got.Sections)
	}

	pages.Invalidate(ctx, doc.PageID)
	if _, ok := pages.Get(ctx, doc.PageID); ok {
		t.Error("unexpected hit after Invalidate")
	}
}

func TestPageCacheDropsCorruptEntries(t *testing.T) {
	backend := NewMemoryCache(time.Minute)
	pages := NewPageCache(backend, time.Minute)
	defer func() { _ = pages.Close() }()
	ctx := context.Background()

	_ = backend.Set(ctx, "page:landing-bad", []byte("{corrupt"), 0)

	if _, ok := pages.Get(ctx, "landing-bad"); ok {
		t.Fatal("corrupt entry should read as a miss")
	}
	// The corrupt entry is gone from the backend.
	if _, err := backend.Get(ctx, "page:landing-bad"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("corrupt entry still present: %v", err)
	}
}

func TestFactoryMemoryBackend(t *testing.T) {
	c, err := New(BackendMemory, "", "", time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New(memory) = %T, want *MemoryCache", c)
	}
}

func TestFactoryUnknownBackend(t *testing.T) {
	if _, err := New("memcached", "", "", time.Minute); err == nil {
		t.Error("unknown backend should fail")
	}
}
