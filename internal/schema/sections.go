// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package schema defines the payload shape of every landing-page section
// variant and validates candidate payloads against it. Validation is pure:
// it is applied both to model-generated output before persistence and to
// manually supplied edit payloads before acceptance.
package schema

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// hexColorPattern matches 3- or 6-digit CSS hex colors such as #fff or #1a1a1a.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

func hexColor() validation.Rule {
	return validation.Match(hexColorPattern).Error("must be a hex color such as #1a1a1a")
}

// HeroData is the payload of a hero section.
type HeroData struct {
	Headline        string `json:"headline"`
	Subheadline     string `json:"subheadline"`
	CTAText         string `json:"ctaText"`
	BackgroundImage string `json:"backgroundImage"`
	TextColor       string `json:"textColor"`
	BackgroundColor string `json:"backgroundColor"`
}

// Validate implements validation.Validatable.
func (d HeroData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Headline, validation.Required),
		validation.Field(&d.Subheadline, validation.Required),
		validation.Field(&d.CTAText, validation.Required),
		validation.Field(&d.BackgroundImage, validation.Required, is.URL),
		validation.Field(&d.TextColor, validation.Required, hexColor()),
		validation.Field(&d.BackgroundColor, validation.Required, hexColor()),
	)
}

// FeatureItem is one entry of a features section.
type FeatureItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Validate implements validation.Validatable.
func (i FeatureItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Title, validation.Required),
		validation.Field(&i.Description, validation.Required),
		validation.Field(&i.Icon, validation.Required),
	)
}

// FeaturesData is the payload of a features section.
type FeaturesData struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Items       []FeatureItem `json:"items"`
}

// Validate implements validation.Validatable.
func (d FeaturesData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Items,
			validation.Required,
			validation.Length(1, 0),
			validation.By(func(any) error { return uniqueIDs(featureItemIDs(d.Items)) }),
		),
	)
}

// TestimonialItem is one entry of a testimonials section.
type TestimonialItem struct {
	ID      string `json:"id"`
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Rating  int    `json:"rating"`
}

// Validate implements validation.Validatable.
func (i TestimonialItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Quote, validation.Required),
		validation.Field(&i.Author, validation.Required),
		validation.Field(&i.Role, validation.Required),
		validation.Field(&i.Company, validation.Required),
		validation.Field(&i.Rating, validation.Required, validation.Min(1), validation.Max(5)),
	)
}

// TestimonialsData is the payload of a testimonials section.
type TestimonialsData struct {
	Title string            `json:"title"`
	Items []TestimonialItem `json:"items"`
}

// Validate implements validation.Validatable.
func (d TestimonialsData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Items,
			validation.Required,
			validation.Length(1, 0),
			validation.By(func(any) error { return uniqueIDs(testimonialItemIDs(d.Items)) }),
		),
	)
}

// FAQItem is one entry of a faq section.
type FAQItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Validate implements validation.Validatable.
func (i FAQItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Question, validation.Required),
		validation.Field(&i.Answer, validation.Required),
	)
}

// FAQData is the payload of a faq section.
type FAQData struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

// Validate implements validation.Validatable.
func (d FAQData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Items,
			validation.Required,
			validation.Length(1, 0),
			validation.By(func(any) error { return uniqueIDs(faqItemIDs(d.Items)) }),
		),
	)
}

// ContactField is one form field of a contact section. Required is a regular
// boolean attribute, not a validation rule.
type ContactField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Validate implements validation.Validatable.
func (f ContactField) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.Type, validation.Required),
	)
}

// ContactData is the payload of a contact section.
type ContactData struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Fields          []ContactField `json:"fields"`
	SubmitText      string         `json:"submitText"`
	BackgroundColor string         `json:"backgroundColor"`
}

// Validate implements validation.Validatable.
func (d ContactData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Fields,
			validation.Required,
			validation.Length(1, 0),
			validation.By(func(any) error { return uniqueIDs(contactFieldNames(d.Fields)) }),
		),
		validation.Field(&d.SubmitText, validation.Required),
		validation.Field(&d.BackgroundColor, validation.Required, hexColor()),
	)
}

// FooterLink is one navigation link of a footer section. URLs may be
// site-relative paths, so no URL format rule applies.
type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Validate implements validation.Validatable.
func (l FooterLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Label, validation.Required),
		validation.Field(&l.URL, validation.Required),
	)
}

// SocialLink is one social-network link of a footer section.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Validate implements validation.Validatable.
func (l SocialLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Platform, validation.Required),
		validation.Field(&l.URL, validation.Required),
	)
}

// FooterData is the payload of a footer section.
type FooterData struct {
	Links       []FooterLink `json:"links"`
	SocialLinks []SocialLink `json:"socialLinks"`
	Copyright   string       `json:"copyright"`
}

// Validate implements validation.Validatable.
func (d FooterData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Links, validation.Required),
		validation.Field(&d.SocialLinks, validation.Required),
		validation.Field(&d.Copyright, validation.Required),
	)
}

func featureItemIDs(items []FeatureItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func testimonialItemIDs(items []TestimonialItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func faqItemIDs(items []FAQItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func contactFieldNames(fields []ContactField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// uniqueIDs rejects duplicate nested identifiers. Stable client-side
// referencing across regenerations depends on them being unique per list.
func uniqueIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue // blank ids are reported by the per-item Required rule
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate identifier %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
