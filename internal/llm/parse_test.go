// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package llm

import (
	"errors"
	"testing"

	"github.com/olegiv/pageforge/internal/model"
)

func TestStripModelOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean json",
			in:   `{"sections": []}`,
			want: `{"sections": []}`,
		},
		{
			name: "fenced json",
			in:   "```json\n{\"sections\": []}\n```",
			want: `{"sections": []}`,
		},
		{
			name: "fence without language tag",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "prose around the object",
			in:   "Here is the JSON you asked for:\n{\"a\": 1}\nLet me know if you need changes.",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
		{
			name: "no object at all",
			in:   "I cannot help with that.",
			want: "I cannot help with that.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripModelOutput(tt.in); got != tt.want {
				t.Errorf("stripModelOutput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePageSections(t *testing.T) {
	raw := "```json\n" + `{
		"sections": [
			{"id": "hero-1", "type": "hero", "order": 0, "data": {"headline": "Hi"}},
			{"id": "faq-1", "type": "faq", "order": 1, "data": {"title": "FAQ"}}
		]
	}` + "\n```"

	sections, err := parsePageSections(raw)
	if err != nil {
		t.Fatalf("parsePageSections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Type != model.SectionHero {
		t.Errorf("sections[0].Type = %q, want hero", sections[0].Type)
	}
	if sections[1].Type != model.SectionFAQ {
		t.Errorf("sections[1].Type = %q, want faq", sections[1].Type)
	}
}

func TestParsePageSectionsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty response", ""},
		{"whitespace only", "   \n  "},
		{"not json", "sorry, no can do {broken"},
		{"no sections key", `{"pages": []}`},
		{"empty sections", `{"sections": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePageSections(tt.in)
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Errorf("parsePageSections(%q) error = %v, want *GenerationError", tt.in, err)
			}
		})
	}
}

func TestParseSectionData(t *testing.T) {
	raw := `Sure! {"id": "hero-99", "type": "contact", "order": 7, "data": {"headline": "Fresh"}}`

	data, err := parseSectionData(raw)
	if err != nil {
		t.Fatalf("parseSectionData: %v", err)
	}
	// Only the data payload comes back; the id/type/order the model claims
	// are discarded.
	if string(data) != `{"headline": "Fresh"}` {
		t.Errorf("data = %s, want the inner data object", data)
	}
}

func TestParseSectionDataErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty response", ""},
		{"not json", "```\nnot json\n```"},
		{"no data field", `{"id": "hero-1", "type": "hero", "order": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSectionData(tt.in)
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Errorf("parseSectionData(%q) error = %v, want *GenerationError", tt.in, err)
			}
		})
	}
}
