// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/olegiv/pageforge/internal/engine"
	"github.com/olegiv/pageforge/internal/llm"
	"github.com/olegiv/pageforge/internal/model"
	"github.com/olegiv/pageforge/internal/store"
)

// fakeGenerator implements llm.Generator with pluggable responses.
type fakeGenerator struct {
	pageFn    func(ctx context.Context, brief model.Brief) ([]model.Section, error)
	sectionFn func(ctx context.Context, section model.Section, brief model.Brief) (json.RawMessage, error)
}

func (f *fakeGenerator) GenerateFullPage(ctx context.Context, brief model.Brief) ([]model.Section, error) {
	return f.pageFn(ctx, brief)
}

func (f *fakeGenerator) RegenerateSection(ctx context.Context, section model.Section, brief model.Brief) (json.RawMessage, error) {
	return f.sectionFn(ctx, section, brief)
}

// testHandler builds a Handler on a migrated temp-file database and the given
// fake generator. The read cache is disabled.
func testHandler(t *testing.T, gen llm.Generator) *Handler {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(store.New(db), gen, logger)
	return NewHandler(eng, nil, logger)
}

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// dataResponse mirrors the success envelope with a typed data field.
type dataResponse[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData decodes the success envelope from a recorded response.
func unmarshalData[T any](t *testing.T, rec *httptest.ResponseRecorder) dataResponse[T] {
	t.Helper()

	var resp dataResponse[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %s: %v", rec.Body.String(), err)
	}
	return resp
}

// unmarshalError decodes the error envelope from a recorded response.
func unmarshalError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response %s: %v", rec.Body.String(), err)
	}
	return resp
}
