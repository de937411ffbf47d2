// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/olegiv/pageforge/internal/model"
)

const systemPrompt = "You are a JSON generation expert. Return ONLY valid JSON, no markdown code blocks, no extra text."

// sectionInstructions carries per-type guidance for single-section
// regeneration.
var sectionInstructions = map[model.SectionType]string{
	model.SectionHero:         "Create a powerful, benefit-driven headline with a clear CTA. The hero should immediately communicate value.",
	model.SectionFeatures:     "Focus on benefits rather than features. Each item should answer 'What does the customer gain?'",
	model.SectionTestimonials: "Make testimonials specific and authentic. Include concrete results or emotional benefits.",
	model.SectionFAQ:          "Address real objections and concerns. Keep answers concise but helpful.",
	model.SectionContact:      "Create urgency and reinforce value. Make the CTA compelling.",
	model.SectionFooter:       "Keep it clean and functional.",
}

// buildLandingPagePrompt renders the full-page generation prompt for a brief.
// The embedded JSON skeleton pins down the exact structure the model must
// return; the parser and the schema registry enforce it afterwards.
func buildLandingPagePrompt(brief model.Brief) string {
	industry := brief.Industry
	if industry == "" {
		industry = "general business"
	}
	tone := brief.BrandTone
	if tone == "" {
		tone = "professional"
	}
	company := brief.Offer
	if company == "" {
		company = "Company"
	}

	return fmt.Sprintf(`You are an expert landing page designer and copywriter. Generate a landing page JSON specification that converts visitors into customers.

## USER REQUIREMENTS
- Industry: %s
- Offer/Product: %s
- Target Audience: %s
- Brand Tone: %s

Use a %s tone throughout all copy.

## CONTENT GUIDELINES
- Headlines should be compelling and benefit-driven (5-8 words)
- Subheadlines should expand on the value proposition (1-2 sentences)
- Features should focus on benefits, not just features
- Testimonials should feel authentic and specific
- FAQs should address real objections and concerns
- CTAs should be action-oriented and clear

## TECHNICAL REQUIREMENTS

Return ONLY valid JSON. No markdown code blocks, no explanatory text, just raw JSON.

Use this exact structure:

{
  "sections": [
    {
      "id": "hero-1",
      "type": "hero",
      "order": 0,
      "data": {
        "headline": "string - powerful main headline (5-8 words, benefit-focused)",
        "subheadline": "string - supporting headline that expands the value prop (1-2 sentences)",
        "ctaText": "string - action button text (3-5 words, e.g., 'Start Free Trial')",
        "backgroundImage": "https://images.unsplash.com/photo-... - relevant unsplash image URL",
        "textColor": "#FFFFFF",
        "backgroundColor": "#1a1a1a"
      }
    },
    {
      "id": "features-1",
      "type": "features",
      "order": 1,
      "data": {
        "title": "string - section headline",
        "description": "string - optional section description (1-2 sentences)",
        "items": [
          {
            "id": "f1",
            "title": "string - feature name (2-4 words)",
            "description": "string - benefit-focused description (1 sentence)",
            "icon": "emoji - single relevant emoji"
          },
          {"id": "f2", "title": "string", "description": "string", "icon": "emoji"},
          {"id": "f3", "title": "string", "description": "string", "icon": "emoji"}
        ]
      }
    },
    {
      "id": "testimonials-1",
      "type": "testimonials",
      "order": 2,
      "data": {
        "title": "string - section title (e.g., 'What Our Customers Say')",
        "items": [
          {
            "id": "t1",
            "quote": "string - authentic testimonial (1-2 sentences, specific results)",
            "author": "string - realistic first and last name",
            "role": "string - job title",
            "company": "string - company name",
            "rating": 5
          },
          {"id": "t2", "quote": "string", "author": "string", "role": "string", "company": "string", "rating": 5}
        ]
      }
    },
    {
      "id": "faq-1",
      "type": "faq",
      "order": 3,
      "data": {
        "title": "Frequently Asked Questions",
        "items": [
          {
            "id": "q1",
            "question": "string - common objection or question (conversational style)",
            "answer": "string - clear, concise answer (1-2 sentences)"
          },
          {"id": "q2", "question": "string", "answer": "string"},
          {"id": "q3", "question": "string", "answer": "string"}
        ]
      }
    },
    {
      "id": "contact-1",
      "type": "contact",
      "order": 4,
      "data": {
        "title": "string - compelling CTA headline (e.g., 'Ready to Transform Your Business?')",
        "description": "string - supporting text that creates urgency (1-2 sentences)",
        "fields": [
          {"name": "email", "label": "Email Address", "type": "email", "required": true},
          {"name": "company", "label": "Company Name", "type": "text", "required": false},
          {"name": "message", "label": "How can we help?", "type": "textarea", "required": true}
        ],
        "submitText": "string - button text (e.g., 'Get Started', 'Request Demo')",
        "backgroundColor": "#f9fafb"
      }
    },
    {
      "id": "footer-1",
      "type": "footer",
      "order": 5,
      "data": {
        "links": [
          {"label": "Privacy Policy", "url": "/privacy"},
          {"label": "Terms of Service", "url": "/terms"},
          {"label": "Contact", "url": "/contact"}
        ],
        "socialLinks": [
          {"platform": "Twitter", "url": "https://twitter.com"},
          {"platform": "LinkedIn", "url": "https://linkedin.com"}
        ],
        "copyright": "© 2025 %s. All rights reserved."
      }
    }
  ]
}

Generate the complete landing page JSON now:`,
		industry, brief.Offer, brief.TargetAudience, brief.BrandTone, tone, company)
}

// buildSectionRegeneratePrompt renders the prompt for regenerating one
// section. The model must keep the section's identity (id, type, order) and
// replace only the data payload.
func buildSectionRegeneratePrompt(section model.Section, brief model.Brief) string {
	industry := brief.Industry
	if industry == "" {
		industry = "general business"
	}

	instructions, ok := sectionInstructions[section.Type]
	if !ok {
		instructions = "Create an improved version of this section."
	}

	var current bytes.Buffer
	if err := json.Indent(&current, section.Data, "", "  "); err != nil {
		current.Reset()
		current.Write(section.Data)
	}

	return fmt.Sprintf(`You are an expert landing page copywriter. Regenerate the %s section with fresh, compelling content.

## CONTEXT
- Industry: %s
- Offer: %s
- Target Audience: %s
- Brand Tone: %s

## CURRENT SECTION
Type: %s
Current Data: %s

## YOUR TASK
%s

Requirements:
1. Create completely NEW content - don't just tweak the existing copy
2. Keep the same JSON structure - only change the content values
3. Be specific to the industry and target audience
4. Focus on benefits and value for the customer

Return ONLY valid JSON (no markdown, no code blocks, no extra text):

{
  "id": "%s",
  "type": "%s",
  "order": %d,
  "data": {
    ... (generate appropriate fields for %s)
  }
}

Generate the regenerated section JSON now:`,
		section.Type, industry, brief.Offer, brief.TargetAudience, brief.BrandTone,
		section.Type, current.String(), instructions,
		section.ID, section.Type, section.Order, section.Type)
}
