// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package llm wraps the external model providers behind a narrow generation
// interface. Providers are explicitly constructed from configuration and
// injected; nothing in this package keeps ambient global state.
package llm

import (
	"context"
	"fmt"
)

// ProviderID constants for supported AI providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage represents a message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request. The model is part of the
// provider's configuration, not the request.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int64         `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	Content          string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	Model            string
}

// Provider is the interface for AI text generation providers.
type Provider interface {
	ID() string
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// AdapterError indicates that the external provider call itself failed:
// network error, provider-side error, or timeout. The operation performed no
// writes and is safe to retry.
type AdapterError struct {
	Provider string
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// GenerationError indicates that the provider answered but its output could
// not be parsed as the expected structured data. Distinct from a schema
// violation, which is detected later by the schema registry.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unusable model output: %s: %v", e.Reason, e.Err)
	}
	return "unusable model output: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }
