// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package llm

import (
	"encoding/json"
	"strings"

	"github.com/olegiv/pageforge/internal/model"
)

// stripModelOutput trims markdown code fences and leading/trailing prose from
// raw model output, leaving the JSON object the model was asked for. Models
// wrap JSON in fences or preambles often enough that this recovery is worth
// doing before declaring the output unusable.
func stripModelOutput(raw string) string {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	// Cut down to the outermost braces if the model added prose around
	// the object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}

	return content
}

// parsePageSections extracts the ordered section list from a full-page
// generation response.
func parsePageSections(raw string) ([]model.Section, error) {
	content := stripModelOutput(raw)
	if content == "" {
		return nil, &GenerationError{Reason: "empty response"}
	}

	var page struct {
		Sections []model.Section `json:"sections"`
	}
	if err := json.Unmarshal([]byte(content), &page); err != nil {
		return nil, &GenerationError{Reason: "response is not valid JSON", Err: err}
	}
	if len(page.Sections) == 0 {
		return nil, &GenerationError{Reason: "response contains no sections"}
	}

	return page.Sections, nil
}

// parseSectionData extracts the regenerated data payload from a
// single-section regeneration response. The model is asked for the full
// section object; only its data field is taken, so the section's identity
// cannot be tampered with.
func parseSectionData(raw string) (json.RawMessage, error) {
	content := stripModelOutput(raw)
	if content == "" {
		return nil, &GenerationError{Reason: "empty response"}
	}

	var section struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(content), &section); err != nil {
		return nil, &GenerationError{Reason: "response is not valid JSON", Err: err}
	}
	if len(section.Data) == 0 {
		return nil, &GenerationError{Reason: "response has no data field"}
	}

	return section.Data, nil
}
