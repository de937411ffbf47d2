// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package engine implements the page mutation operations. Every operation
// follows the same shape: load the document, apply one mutation, bump the
// version by exactly one, and write back conditional on the version it read.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/pageforge/internal/llm"
	"github.com/olegiv/pageforge/internal/model"
	"github.com/olegiv/pageforge/internal/schema"
	"github.com/olegiv/pageforge/internal/store"
)

// Engine coordinates the store, the generation client, and the schema
// registry. It owns page identity and versioning; callers never write
// documents directly.
type Engine struct {
	store  *store.Store
	gen    llm.Generator
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Engine. The generator may be nil only if Generate and
// RegenerateSection are never called.
func New(st *store.Store, gen llm.Generator, logger *slog.Logger) *Engine {
	return &Engine{
		store:  st,
		gen:    gen,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// newPageID mints a page id in the form landing-<8 hex chars>.
func newPageID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "landing-" + hex[:8]
}

// Generate creates a new page document from a business brief. Sections come
// from the generation client, get deterministic ids and orders assigned, and
// must all pass schema validation before anything is persisted.
func (e *Engine) Generate(ctx context.Context, brief model.Brief, ownerID string) (*model.PageDocument, error) {
	sections, err := e.gen.GenerateFullPage(ctx, brief)
	if err != nil {
		return nil, err
	}

	counters := make(map[model.SectionType]int)
	violations := make(map[string]string)
	for i := range sections {
		s := &sections[i]
		if !s.Type.IsValid() {
			return nil, &llm.GenerationError{Reason: fmt.Sprintf("unknown section type %q", s.Type)}
		}
		counters[s.Type]++
		s.ID = fmt.Sprintf("%s-%d", s.Type, counters[s.Type])
		s.Order = i

		normalized, err := schema.Validate(s.Type, s.Data)
		if err != nil {
			// Collect violations across all sections before failing, so
			// one response reports everything the model got wrong.
			var schemaErr *schema.Error
			if errors.As(err, &schemaErr) {
				for field, msg := range schemaErr.Fields {
					violations[s.ID+"."+field] = msg
				}
				continue
			}
			return nil, fmt.Errorf("section %s: %w", s.ID, err)
		}
		s.Data = normalized
	}
	if len(violations) > 0 {
		return nil, &schema.Error{Fields: violations}
	}

	now := e.now()
	doc := &model.PageDocument{
		PageID:    newPageID(),
		Version:   1,
		Sections:  sections,
		Published: false,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.CreatePage(ctx, doc); err != nil {
		return nil, err
	}

	e.logger.Info("page generated", "page_id", doc.PageID, "sections", len(doc.Sections))
	return doc, nil
}

// Get loads a page document by id.
func (e *Engine) Get(ctx context.Context, pageID string) (*model.PageDocument, error) {
	doc, err := e.store.GetPage(ctx, pageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPageNotFound
	}
	return doc, err
}

// List returns page documents ordered newest first, with the total count for
// the same filter.
func (e *Engine) List(ctx context.Context, ownerID string, limit, offset int64) ([]model.PageDocument, int64, error) {
	docs, err := e.store.ListPages(ctx, store.ListPagesParams{
		OwnerID: ownerID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := e.store.CountPages(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// EditSection replaces the data payload of one section wholesale. The payload
// must satisfy the schema of the section's existing type; the section's id,
// type, and position never change.
func (e *Engine) EditSection(ctx context.Context, pageID, sectionID string, data json.RawMessage) (*model.PageDocument, error) {
	doc, err := e.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}

	section := doc.Section(sectionID)
	if section == nil {
		return nil, ErrSectionNotFound
	}

	normalized, err := schema.Validate(section.Type, data)
	if err != nil {
		return nil, err
	}
	section.Data = normalized

	if err := e.commit(ctx, doc); err != nil {
		return nil, err
	}
	e.logger.Info("section edited", "page_id", pageID, "section_id", sectionID, "version", doc.Version)
	return doc, nil
}

// RegenerateSection asks the generation client for a fresh payload for one
// section and applies it like an edit. A generation failure leaves the
// document untouched.
func (e *Engine) RegenerateSection(ctx context.Context, pageID, sectionID string, brief model.Brief) (*model.PageDocument, error) {
	doc, err := e.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}

	section := doc.Section(sectionID)
	if section == nil {
		return nil, ErrSectionNotFound
	}

	data, err := e.gen.RegenerateSection(ctx, *section, brief)
	if err != nil {
		return nil, err
	}

	normalized, err := schema.Validate(section.Type, data)
	if err != nil {
		return nil, err
	}
	section.Data = normalized

	if err := e.commit(ctx, doc); err != nil {
		return nil, err
	}
	e.logger.Info("section regenerated", "page_id", pageID, "section_id", sectionID, "version", doc.Version)
	return doc, nil
}

// ReorderSections rearranges the page's sections to match the given id list.
// The list must be a permutation of the page's current section ids; sections
// keep their identity and data and get fresh order values.
func (e *Engine) ReorderSections(ctx context.Context, pageID string, order []string) (*model.PageDocument, error) {
	doc, err := e.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if err := checkPermutation(doc, order); err != nil {
		return nil, err
	}

	reordered := make([]model.Section, 0, len(order))
	for i, id := range order {
		s := *doc.Section(id)
		s.Order = i
		reordered = append(reordered, s)
	}
	doc.Sections = reordered

	if err := e.commit(ctx, doc); err != nil {
		return nil, err
	}
	e.logger.Info("sections reordered", "page_id", pageID, "version", doc.Version)
	return doc, nil
}

// checkPermutation verifies that order names each of the document's section
// ids exactly once.
func checkPermutation(doc *model.PageDocument, order []string) error {
	if len(order) != len(doc.Sections) {
		return &ValidationError{Message: fmt.Sprintf(
			"order must list all %d section ids, got %d", len(doc.Sections), len(order))}
	}

	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return &ValidationError{Message: fmt.Sprintf("duplicate section id %q in order", id)}
		}
		seen[id] = true
		if doc.Section(id) == nil {
			return &ValidationError{Message: fmt.Sprintf("unknown section id %q in order", id)}
		}
	}
	return nil
}

// Publish marks the page as published. Publishing an already published page
// is allowed and still advances the version, so the call always has a visible
// effect on the document.
func (e *Engine) Publish(ctx context.Context, pageID string) (*model.PageDocument, error) {
	doc, err := e.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}

	doc.Published = true

	if err := e.commit(ctx, doc); err != nil {
		return nil, err
	}
	e.logger.Info("page published", "page_id", pageID, "version", doc.Version)
	return doc, nil
}

// Delete removes a page document. Returns whether a document existed.
func (e *Engine) Delete(ctx context.Context, pageID string) (bool, error) {
	existed, err := e.store.DeletePage(ctx, pageID)
	if err != nil {
		return false, err
	}
	if existed {
		e.logger.Info("page deleted", "page_id", pageID)
	}
	return existed, nil
}

// commit bumps the version by one and writes the document back, conditional
// on the version it was loaded at. store.ErrConflict propagates to the caller
// unchanged; the mutation can be retried from a fresh read.
func (e *Engine) commit(ctx context.Context, doc *model.PageDocument) error {
	expected := doc.Version
	doc.Version = expected + 1
	doc.UpdatedAt = e.now()

	err := e.store.UpdatePage(ctx, doc, expected)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPageNotFound
	}
	return err
}
