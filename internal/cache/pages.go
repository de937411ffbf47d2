// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/olegiv/pageforge/internal/model"
)

const pageKeyPrefix = "page:"

// PageCache is the typed cache for page documents, layered over a Cache
// backend. Cache failures degrade to misses; the caller always has the store
// as the source of truth.
type PageCache struct {
	backend Cache
	ttl     time.Duration
}

// NewPageCache wraps a backend with page-document typed access.
func NewPageCache(backend Cache, ttl time.Duration) *PageCache {
	return &PageCache{backend: backend, ttl: ttl}
}

// Get returns the cached document for pageID, or false on a miss or a
// decoding failure.
func (p *PageCache) Get(ctx context.Context, pageID string) (*model.PageDocument, bool) {
	raw, err := p.backend.Get(ctx, pageKeyPrefix+pageID)
	if err != nil {
		return nil, false
	}

	var doc model.PageDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Stale or corrupt entry; drop it.
		_ = p.backend.Delete(ctx, pageKeyPrefix+pageID)
		return nil, false
	}
	return &doc, true
}

// Set stores a document. Errors are swallowed except a closed backend, since
// a failed cache write must not fail the request.
func (p *PageCache) Set(ctx context.Context, doc *model.PageDocument) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	_ = p.backend.Set(ctx, pageKeyPrefix+doc.PageID, raw, p.ttl)
}

// Invalidate removes the cached document for pageID. Called after every
// mutation; if the delete fails, the entry TTL still bounds staleness.
func (p *PageCache) Invalidate(ctx context.Context, pageID string) {
	_ = p.backend.Delete(ctx, pageKeyPrefix+pageID)
}

// Close closes the underlying backend.
func (p *PageCache) Close() error {
	return p.backend.Close()
}
