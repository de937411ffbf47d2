// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/pageforge/internal/model"
)

// Generation request knobs. Generation needs headroom for a full six-section
// page; regeneration is a single payload.
const (
	fullPageMaxTokens = 4000
	sectionMaxTokens  = 1500
	genTemperature    = 0.7
)

// Generator produces page content from a business brief. Satisfied by Client;
// tests substitute fakes.
type Generator interface {
	GenerateFullPage(ctx context.Context, brief model.Brief) ([]model.Section, error)
	RegenerateSection(ctx context.Context, section model.Section, brief model.Brief) (json.RawMessage, error)
}

// Client drives a Provider through the landing page prompts and parses the
// results. Every call is bounded by the configured timeout.
type Client struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewClient creates a generation client on top of the given provider.
func NewClient(provider Provider, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// GenerateFullPage asks the model for a complete section list matching the
// brief. Provider failures surface as *AdapterError, unusable output as
// *GenerationError.
func (c *Client) GenerateFullPage(ctx context.Context, brief model.Brief) ([]model.Section, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.ChatCompletion(ctx, ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: buildLandingPagePrompt(brief)},
		},
		MaxTokens:   fullPageMaxTokens,
		Temperature: genTemperature,
	})
	if err != nil {
		return nil, &AdapterError{Provider: c.provider.ID(), Err: err}
	}

	c.logger.Debug("full page generated",
		"provider", c.provider.ID(),
		"model", resp.Model,
		"tokens", resp.TotalTokens)

	return parsePageSections(resp.Content)
}

// RegenerateSection asks the model for a fresh data payload for one section,
// keeping the section's identity untouched.
func (c *Client) RegenerateSection(ctx context.Context, section model.Section, brief model.Brief) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.ChatCompletion(ctx, ChatRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: buildSectionRegeneratePrompt(section, brief)},
		},
		MaxTokens:   sectionMaxTokens,
		Temperature: genTemperature,
	})
	if err != nil {
		return nil, &AdapterError{Provider: c.provider.ID(), Err: err}
	}

	c.logger.Debug("section regenerated",
		"provider", c.provider.ID(),
		"model", resp.Model,
		"section", section.ID,
		"tokens", resp.TotalTokens)

	return parseSectionData(resp.Content)
}
