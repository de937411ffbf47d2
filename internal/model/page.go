// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// SectionType identifies one of the fixed landing-page section variants.
type SectionType string

// Section type tags. The set is fixed; a section never changes its type.
const (
	SectionHero         SectionType = "hero"
	SectionFeatures     SectionType = "features"
	SectionTestimonials SectionType = "testimonials"
	SectionFAQ          SectionType = "faq"
	SectionContact      SectionType = "contact"
	SectionFooter       SectionType = "footer"
)

// SectionTypes lists all valid section types in canonical page order.
var SectionTypes = []SectionType{
	SectionHero,
	SectionFeatures,
	SectionTestimonials,
	SectionFAQ,
	SectionContact,
	SectionFooter,
}

// IsValid reports whether t is one of the known section types.
func (t SectionType) IsValid() bool {
	switch t {
	case SectionHero, SectionFeatures, SectionTestimonials, SectionFAQ, SectionContact, SectionFooter:
		return true
	}
	return false
}

// Section is one typed, ordered block of a page document. Its id and type are
// assigned at document creation and never change; mutations replace Data
// wholesale. Order mirrors the section's position in the document sequence.
type Section struct {
	ID    string          `json:"id"`
	Type  SectionType     `json:"type"`
	Order int             `json:"order"`
	Data  json.RawMessage `json:"data"`
}

// PageDocument is the persisted landing-page specification. Version starts at
// 1 and advances by exactly 1 on every successful mutation. The order of
// Sections is the rendering order.
type PageDocument struct {
	PageID    string    `json:"pageId"`
	Version   int64     `json:"version"`
	Sections  []Section `json:"sections"`
	Published bool      `json:"published"`
	OwnerID   string    `json:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Section returns a pointer to the section with the given id, or nil.
func (d *PageDocument) Section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// SectionIDs returns the ids of all sections in document order.
func (d *PageDocument) SectionIDs() []string {
	ids := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

// Brief is the user-supplied input that drives page generation.
type Brief struct {
	Industry       string `json:"industry"`
	Offer          string `json:"offer"`
	TargetAudience string `json:"targetAudience"`
	BrandTone      string `json:"brandTone"`
}
