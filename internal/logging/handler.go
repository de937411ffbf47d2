// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR level
// records into the database-backed event log for auditing.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/pageforge/internal/store"
)

// Event levels stored in the events table.
const (
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories. The category attribute on a record wins; otherwise it is
// inferred from the message.
const (
	CategoryPage      = "page"
	CategoryGenerator = "generator"
	CategoryCache     = "cache"
	CategorySystem    = "system"
)

// EventLogHandler wraps another slog.Handler and also writes records at or
// above its threshold to the event log.
type EventLogHandler struct {
	inner slog.Handler
	store *store.Store
	level slog.Level
}

// NewEventLogHandler wraps inner so WARN and above also land in the event log.
func NewEventLogHandler(inner slog.Handler, st *store.Store) *EventLogHandler {
	return &EventLogHandler{
		inner: inner,
		store: st,
		level: slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeEvent(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithAttrs(attrs), store: h.store, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{inner: h.inner.WithGroup(name), store: h.store, level: h.level}
}

// writeEvent persists one record. A background context is used so the event
// survives request cancellation; a failed insert is dropped rather than
// recursing into the logger.
func (h *EventLogHandler) writeEvent(r slog.Record) {
	level := EventLevelWarning
	if r.Level >= slog.LevelError {
		level = EventLevelError
	}

	_ = h.store.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     level,
		Category:  recordCategory(r),
		Message:   r.Message,
		Metadata:  recordMetadata(r),
		CreatedAt: r.Time,
	})
}

// recordCategory returns the record's category attribute, or infers one from
// the message.
func recordCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "page") || strings.Contains(msg, "section"):
		return CategoryPage
	case strings.Contains(msg, "generat") || strings.Contains(msg, "provider"):
		return CategoryGenerator
	case strings.Contains(msg, "cache"):
		return CategoryCache
	default:
		return CategorySystem
	}
}

// recordMetadata collects the record's attributes into a JSON object.
func recordMetadata(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	attrs := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "category" {
			attrs[a.Key] = a.Value.String()
		}
		return true
	})

	raw, err := json.Marshal(attrs)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

var _ slog.Handler = (*EventLogHandler)(nil)
