// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pageforge/internal/model"
)

// testStore opens a migrated store backed by a temp-file database.
func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return New(db)
}

func testDoc(pageID, ownerID string, published bool, at time.Time) *model.PageDocument {
	return &model.PageDocument{
		PageID:  pageID,
		Version: 1,
		Sections: []model.Section{
			{ID: "hero-1", Type: model.SectionHero, Order: 0, Data: json.RawMessage(`{"headline":"Hi"}`)},
			{ID: "footer-1", Type: model.SectionFooter, Order: 1, Data: json.RawMessage(`{"copyright":"c"}`)},
		},
		Published: published,
		OwnerID:   ownerID,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestCreateAndGetPage(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	doc := testDoc("landing-abc12345", "owner-1", false, now)
	require.NoError(t, st.CreatePage(ctx, doc))

	got, err := st.GetPage(ctx, "landing-abc12345")
	require.NoError(t, err)

	assert.Equal(t, doc.PageID, got.PageID)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.False(t, got.Published)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "hero-1", got.Sections[0].ID)
	assert.Equal(t, model.SectionHero, got.Sections[0].Type)
	assert.JSONEq(t, `{"headline":"Hi"}`, string(got.Sections[0].Data))
}

func TestCreatePageDuplicateID(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.CreatePage(ctx, testDoc("landing-dup", "", false, now)))
	err := st.CreatePage(ctx, testDoc("landing-dup", "", false, now))
	assert.Error(t, err)
}

func TestGetPageNotFound(t *testing.T) {
	st := testStore(t)

	_, err := st.GetPage(context.Background(), "landing-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePage(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	doc := testDoc("landing-upd", "", false, now)
	require.NoError(t, st.CreatePage(ctx, doc))

	doc.Version = 2
	doc.Published = true
	doc.Sections[0].Data = json.RawMessage(`{"headline":"Updated"}`)
	doc.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, st.UpdatePage(ctx, doc, 1))

	got, err := st.GetPage(ctx, "landing-upd")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, got.Published)
	assert.JSONEq(t, `{"headline":"Updated"}`, string(got.Sections[0].Data))
}

func TestUpdatePageStaleVersion(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	doc := testDoc("landing-race", "", false, now)
	require.NoError(t, st.CreatePage(ctx, doc))

	// First writer wins.
	doc.Version = 2
	require.NoError(t, st.UpdatePage(ctx, doc, 1))

	// Second writer still holds version 1 and must lose.
	stale := testDoc("landing-race", "", false, now)
	stale.Version = 2
	err := st.UpdatePage(ctx, stale, 1)
	assert.ErrorIs(t, err, ErrConflict)

	// The losing write left no trace.
	got, err := st.GetPage(ctx, "landing-race")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}

func TestUpdatePageDeleted(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	doc := testDoc("landing-gone", "", false, time.Now().UTC())
	require.NoError(t, st.CreatePage(ctx, doc))

	deleted, err := st.DeletePage(ctx, "landing-gone")
	require.NoError(t, err)
	require.True(t, deleted)

	doc.Version = 2
	err = st.UpdatePage(ctx, doc, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePage(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreatePage(ctx, testDoc("landing-del", "", false, time.Now().UTC())))

	deleted, err := st.DeletePage(ctx, "landing-del")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = st.DeletePage(ctx, "landing-del")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = st.GetPage(ctx, "landing-del")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPages(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	// Staggered creation times so ordering is deterministic.
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-a", "owner-1", false, base)))
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-b", "owner-2", false, base.Add(time.Minute))))
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-c", "owner-1", true, base.Add(2*time.Minute))))

	t.Run("all newest first", func(t *testing.T) {
		docs, err := st.ListPages(ctx, ListPagesParams{Limit: 10})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "landing-c", docs[0].PageID)
		assert.Equal(t, "landing-b", docs[1].PageID)
		assert.Equal(t, "landing-a", docs[2].PageID)
	})

	t.Run("owner filter", func(t *testing.T) {
		docs, err := st.ListPages(ctx, ListPagesParams{OwnerID: "owner-1", Limit: 10})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "landing-c", docs[0].PageID)
		assert.Equal(t, "landing-a", docs[1].PageID)
	})

	t.Run("pagination", func(t *testing.T) {
		docs, err := st.ListPages(ctx, ListPagesParams{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "landing-b", docs[0].PageID)
	})

	t.Run("counts", func(t *testing.T) {
		total, err := st.CountPages(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		owned, err := st.CountPages(ctx, "owner-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), owned)
	})
}

func TestPurgeStaleDrafts(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -40)

	// Stale draft: purged. Old but published: kept. Fresh draft: kept.
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-stale", "", false, old)))
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-pub", "", true, old)))
	require.NoError(t, st.CreatePage(ctx, testDoc("landing-fresh", "", false, now)))

	purged, err := st.PurgeStaleDrafts(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = st.GetPage(ctx, "landing-stale")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.GetPage(ctx, "landing-pub")
	assert.NoError(t, err)
	_, err = st.GetPage(ctx, "landing-fresh")
	assert.NoError(t, err)
}

func TestEventLogRoundtrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	for i, msg := range []string{"first", "second", "third"} {
		err := st.CreateEvent(ctx, CreateEventParams{
			Level:     "warning",
			Category:  "page",
			Message:   msg,
			Metadata:  fmt.Sprintf(`{"n":%d}`, i),
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	events, err := st.ListRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "third", events[0].Message)
	assert.Equal(t, "second", events[1].Message)
	assert.Equal(t, "warning", events[0].Level)
	assert.Equal(t, "page", events[0].Category)
}

func TestErrorsAreSentinels(t *testing.T) {
	if !errors.Is(ErrNotFound, ErrNotFound) || errors.Is(ErrNotFound, ErrConflict) {
		t.Error("store sentinels must be distinct")
	}
}
