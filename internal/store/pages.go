// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists page documents in SQLite, one row per page id.
// Updates are conditional on the version read by the caller, which makes the
// store the single point that enforces per-document write serialization.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/pageforge/internal/model"
)

// Store provides typed access to the pages and events tables.
type Store struct {
	db *sql.DB
}

// New creates a Store backed by the given database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreatePage inserts a new page document. The document's PageID must be set
// and unused; all other fields are persisted as given.
func (s *Store) CreatePage(ctx context.Context, doc *model.PageDocument) error {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return fmt.Errorf("marshaling sections: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pages (page_id, version, sections, published, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.PageID, doc.Version, string(sections), boolToInt(doc.Published),
		doc.OwnerID, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting page %s: %w", doc.PageID, err)
	}
	return nil
}

// GetPage loads a page document by its page id. Returns ErrNotFound if no
// such document exists.
func (s *Store) GetPage(ctx context.Context, pageID string) (*model.PageDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT version, sections, published, owner_id, created_at, updated_at
		FROM pages WHERE page_id = ?`, pageID)

	var (
		doc       model.PageDocument
		sections  string
		published int64
	)
	doc.PageID = pageID
	err := row.Scan(&doc.Version, &sections, &published, &doc.OwnerID, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading page %s: %w", pageID, err)
	}

	if err := json.Unmarshal([]byte(sections), &doc.Sections); err != nil {
		return nil, fmt.Errorf("unmarshaling sections of page %s: %w", pageID, err)
	}
	doc.Published = published != 0

	return &doc, nil
}

// UpdatePage writes the mutated document, conditional on the row still being
// at expectedVersion. A concurrent writer that advanced the version first
// causes ErrConflict; a deleted document causes ErrNotFound. In both cases
// nothing is written.
func (s *Store) UpdatePage(ctx context.Context, doc *model.PageDocument, expectedVersion int64) error {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return fmt.Errorf("marshaling sections: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE pages
		SET version = ?, sections = ?, published = ?, updated_at = ?
		WHERE page_id = ? AND version = ?`,
		doc.Version, string(sections), boolToInt(doc.Published), doc.UpdatedAt,
		doc.PageID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating page %s: %w", doc.PageID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating page %s: %w", doc.PageID, err)
	}
	if affected == 0 {
		// Distinguish a lost race from a deleted document.
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM pages WHERE page_id = ?`, doc.PageID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking page %s: %w", doc.PageID, err)
		}
		return ErrConflict
	}

	return nil
}

// DeletePage removes a page document. Returns whether a document existed.
func (s *Store) DeletePage(ctx context.Context, pageID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE page_id = ?`, pageID)
	if err != nil {
		return false, fmt.Errorf("deleting page %s: %w", pageID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting page %s: %w", pageID, err)
	}
	return affected > 0, nil
}

// ListPagesParams controls pagination and owner filtering for ListPages.
type ListPagesParams struct {
	OwnerID string // empty matches all owners
	Limit   int64
	Offset  int64
}

// ListPages returns page documents ordered by creation time, newest first.
func (s *Store) ListPages(ctx context.Context, params ListPagesParams) ([]model.PageDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT page_id, version, sections, published, owner_id, created_at, updated_at
		FROM pages
		WHERE (? = '' OR owner_id = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		params.OwnerID, params.OwnerID, params.Limit, params.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []model.PageDocument
	for rows.Next() {
		var (
			doc       model.PageDocument
			sections  string
			published int64
		)
		if err := rows.Scan(&doc.PageID, &doc.Version, &sections, &published,
			&doc.OwnerID, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		if err := json.Unmarshal([]byte(sections), &doc.Sections); err != nil {
			return nil, fmt.Errorf("unmarshaling sections of page %s: %w", doc.PageID, err)
		}
		doc.Published = published != 0
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	return docs, nil
}

// CountPages returns the number of pages, optionally filtered by owner.
func (s *Store) CountPages(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pages WHERE (? = '' OR owner_id = ?)`,
		ownerID, ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return count, nil
}

// PurgeStaleDrafts deletes unpublished pages not touched since the given
// cutoff. Returns the number of pages removed.
func (s *Store) PurgeStaleDrafts(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM pages WHERE published = 0 AND updated_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("purging stale drafts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging stale drafts: %w", err)
	}
	return affected, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
