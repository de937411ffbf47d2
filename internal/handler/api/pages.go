// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/pageforge/internal/cache"
	"github.com/olegiv/pageforge/internal/engine"
	"github.com/olegiv/pageforge/internal/llm"
	"github.com/olegiv/pageforge/internal/model"
	"github.com/olegiv/pageforge/internal/schema"
	"github.com/olegiv/pageforge/internal/store"
)

// Handler holds shared dependencies for the page API handlers.
type Handler struct {
	engine *engine.Engine
	pages  *cache.PageCache
	logger *slog.Logger
}

// NewHandler creates an API handler. pages may be nil to disable the read
// cache.
func NewHandler(eng *engine.Engine, pages *cache.PageCache, logger *slog.Logger) *Handler {
	return &Handler{
		engine: eng,
		pages:  pages,
		logger: logger,
	}
}

// Routes returns the /api/v1 router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/pages/generate", h.GeneratePage)
	r.Get("/pages", h.ListPages)
	r.Route("/pages/{pageID}", func(r chi.Router) {
		r.Get("/", h.GetPage)
		r.Delete("/", h.DeletePage)
		r.Post("/edit-section", h.EditSection)
		r.Post("/regenerate-section", h.RegenerateSection)
		r.Post("/reorder-sections", h.ReorderSections)
		r.Post("/publish", h.PublishPage)
	})

	return r
}

// GenerateRequest is the request body for POST /pages/generate.
type GenerateRequest struct {
	Industry       string `json:"industry"`
	Offer          string `json:"offer"`
	TargetAudience string `json:"targetAudience"`
	BrandTone      string `json:"brandTone"`
	OwnerID        string `json:"ownerId,omitempty"`
}

// Validate implements validation.Validatable.
func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Industry, validation.Required),
		validation.Field(&r.Offer, validation.Required),
		validation.Field(&r.TargetAudience, validation.Required),
	)
}

func (r GenerateRequest) brief() model.Brief {
	return model.Brief{
		Industry:       r.Industry,
		Offer:          r.Offer,
		TargetAudience: r.TargetAudience,
		BrandTone:      r.BrandTone,
	}
}

// EditSectionRequest is the request body for POST /pages/{pageID}/edit-section.
type EditSectionRequest struct {
	SectionID string          `json:"sectionId"`
	Data      json.RawMessage `json:"data"`
}

// RegenerateSectionRequest is the request body for
// POST /pages/{pageID}/regenerate-section.
type RegenerateSectionRequest struct {
	SectionID      string `json:"sectionId"`
	Industry       string `json:"industry"`
	Offer          string `json:"offer"`
	TargetAudience string `json:"targetAudience"`
	BrandTone      string `json:"brandTone"`
}

// ReorderSectionsRequest is the request body for
// POST /pages/{pageID}/reorder-sections.
type ReorderSectionsRequest struct {
	SectionIDs []string `json:"sectionIds"`
}

// MutationResponse acknowledges a successful mutation with the new version.
type MutationResponse struct {
	PageID  string `json:"pageId"`
	Version int64  `json:"version"`
}

// PublishResponse is the response body for POST /pages/{pageID}/publish.
type PublishResponse struct {
	PageID    string `json:"pageId"`
	Version   int64  `json:"version"`
	Published bool   `json:"published"`
	URL       string `json:"url"`
}

// DeleteResponse is the response body for DELETE /pages/{pageID}.
type DeleteResponse struct {
	PageID  string `json:"pageId"`
	Deleted bool   `json:"deleted"`
}

// decodeBody decodes a JSON request body. Returns false with a 400 already
// written on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// writeOperationError maps an engine error to the API status codes. Identity
// failures are 404, invalid input 400, lost version races 409, and generation
// or provider failures 500.
func (h *Handler) writeOperationError(w http.ResponseWriter, err error) {
	var (
		schemaErr  *schema.Error
		reorderErr *engine.ValidationError
		genErr     *llm.GenerationError
		adapterErr *llm.AdapterError
	)

	switch {
	case errors.Is(err, engine.ErrPageNotFound):
		WriteNotFound(w, "Page not found")
	case errors.Is(err, engine.ErrSectionNotFound):
		WriteNotFound(w, "Section not found")
	case errors.Is(err, store.ErrConflict):
		WriteConflict(w, "Page was modified concurrently, retry with the latest version")
	case errors.As(err, &schemaErr):
		WriteBadRequest(w, "Section data failed schema validation", schemaErr.Fields)
	case errors.As(err, &reorderErr):
		WriteBadRequest(w, reorderErr.Message, nil)
	case errors.As(err, &genErr):
		h.logger.Error("generation produced unusable output", "error", err)
		WriteError(w, http.StatusInternalServerError, "generation_failed",
			"The model returned unusable output, try again", nil)
	case errors.As(err, &adapterErr):
		h.logger.Error("generation provider failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "provider_unavailable",
			"The generation provider is unavailable, try again later", nil)
	default:
		h.logger.Error("page operation failed", "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// GeneratePage handles POST /api/v1/pages/generate.
func (h *Handler) GeneratePage(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteBadRequest(w, "Invalid brief", validationDetails(err))
		return
	}

	doc, err := h.engine.Generate(r.Context(), req.brief(), req.OwnerID)
	if err != nil {
		// A schema failure here means the model produced bad content,
		// not the caller, so it is a server-side failure.
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			h.logger.Error("generated page failed schema validation", "violations", len(schemaErr.Fields))
			WriteError(w, http.StatusInternalServerError, "generation_failed",
				"Generated content failed validation, try again", nil)
			return
		}
		h.writeOperationError(w, err)
		return
	}

	if h.pages != nil {
		h.pages.Set(r.Context(), doc)
	}
	WriteCreated(w, doc)
}

// GetPage handles GET /api/v1/pages/{pageID}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	if h.pages != nil {
		if doc, ok := h.pages.Get(r.Context(), pageID); ok {
			WriteSuccess(w, doc, nil)
			return
		}
	}

	doc, err := h.engine.Get(r.Context(), pageID)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	if h.pages != nil {
		h.pages.Set(r.Context(), doc)
	}
	WriteSuccess(w, doc, nil)
}

// ListPages handles GET /api/v1/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := parseInt64(q.Get("limit"), 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := parseInt64(q.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	owner := q.Get("owner")

	docs, total, err := h.engine.List(r.Context(), owner, limit, offset)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}
	if docs == nil {
		docs = []model.PageDocument{}
	}

	WriteSuccess(w, docs, &Meta{Total: total, Limit: limit, Offset: offset})
}

// EditSection handles POST /api/v1/pages/{pageID}/edit-section.
func (h *Handler) EditSection(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req EditSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SectionID == "" {
		WriteBadRequest(w, "sectionId is required", nil)
		return
	}
	if len(req.Data) == 0 {
		WriteBadRequest(w, "data is required", nil)
		return
	}

	doc, err := h.engine.EditSection(r.Context(), pageID, req.SectionID, req.Data)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.refreshCache(r, doc)
	WriteSuccess(w, MutationResponse{PageID: doc.PageID, Version: doc.Version}, nil)
}

// RegenerateSection handles POST /api/v1/pages/{pageID}/regenerate-section.
func (h *Handler) RegenerateSection(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req RegenerateSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SectionID == "" {
		WriteBadRequest(w, "sectionId is required", nil)
		return
	}

	brief := model.Brief{
		Industry:       req.Industry,
		Offer:          req.Offer,
		TargetAudience: req.TargetAudience,
		BrandTone:      req.BrandTone,
	}
	doc, err := h.engine.RegenerateSection(r.Context(), pageID, req.SectionID, brief)
	if err != nil {
		// Regenerated content that fails the schema is the model's
		// fault, not the caller's.
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			h.logger.Error("regenerated section failed schema validation", "page_id", pageID)
			WriteError(w, http.StatusInternalServerError, "generation_failed",
				"Regenerated content failed validation, try again", nil)
			return
		}
		h.writeOperationError(w, err)
		return
	}

	h.refreshCache(r, doc)
	WriteSuccess(w, MutationResponse{PageID: doc.PageID, Version: doc.Version}, nil)
}

// ReorderSections handles POST /api/v1/pages/{pageID}/reorder-sections.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	var req ReorderSectionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	doc, err := h.engine.ReorderSections(r.Context(), pageID, req.SectionIDs)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.refreshCache(r, doc)
	WriteSuccess(w, MutationResponse{PageID: doc.PageID, Version: doc.Version}, nil)
}

// PublishPage handles POST /api/v1/pages/{pageID}/publish.
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	doc, err := h.engine.Publish(r.Context(), pageID)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}

	h.refreshCache(r, doc)
	WriteSuccess(w, PublishResponse{
		PageID:    doc.PageID,
		Version:   doc.Version,
		Published: doc.Published,
		URL:       "/preview/" + doc.PageID,
	}, nil)
}

// DeletePage handles DELETE /api/v1/pages/{pageID}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	deleted, err := h.engine.Delete(r.Context(), pageID)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}
	if !deleted {
		WriteNotFound(w, "Page not found")
		return
	}

	if h.pages != nil {
		h.pages.Invalidate(r.Context(), pageID)
	}
	WriteSuccess(w, DeleteResponse{PageID: pageID, Deleted: true}, nil)
}

// Preview handles GET /preview/{pageID}: the published document as the
// render target would consume it. Unpublished drafts are not exposed.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")

	doc, err := h.engine.Get(r.Context(), pageID)
	if err != nil {
		h.writeOperationError(w, err)
		return
	}
	if !doc.Published {
		WriteNotFound(w, "Page not found")
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// refreshCache replaces the cached document after a successful mutation.
func (h *Handler) refreshCache(r *http.Request, doc *model.PageDocument) {
	if h.pages == nil {
		return
	}
	h.pages.Invalidate(r.Context(), doc.PageID)
	h.pages.Set(r.Context(), doc)
}

// validationDetails flattens an ozzo validation error into field→message.
func validationDetails(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	details := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		details[field] = ferr.Error()
	}
	return details
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
