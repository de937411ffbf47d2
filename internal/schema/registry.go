// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/olegiv/pageforge/internal/model"
)

// Validate checks a raw candidate payload against the schema of the given
// section type and returns the normalized payload on success. On failure it
// returns a *Error enumerating every missing or malformed field, so a caller
// can report all problems in one round trip. Unknown fields are rejected: a
// payload of the wrong variant never passes as another type.
func Validate(t model.SectionType, raw json.RawMessage) (json.RawMessage, error) {
	switch t {
	case model.SectionHero:
		return decodeAndValidate[HeroData](raw)
	case model.SectionFeatures:
		return decodeAndValidate[FeaturesData](raw)
	case model.SectionTestimonials:
		return decodeAndValidate[TestimonialsData](raw)
	case model.SectionFAQ:
		return decodeAndValidate[FAQData](raw)
	case model.SectionContact:
		return decodeAndValidate[ContactData](raw)
	case model.SectionFooter:
		return decodeAndValidate[FooterData](raw)
	default:
		return nil, newFieldError("type", fmt.Sprintf("unknown section type %q", t))
	}
}

// decodeAndValidate strictly decodes raw into the variant payload T, runs its
// validation rules, and re-marshals the normalized form.
func decodeAndValidate[T validation.Validatable](raw json.RawMessage) (json.RawMessage, error) {
	var payload T

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, newFieldError("data", "malformed payload: "+err.Error())
	}
	if dec.More() {
		return nil, newFieldError("data", "malformed payload: trailing content after JSON object")
	}

	if err := payload.Validate(); err != nil {
		return nil, fromValidation(err)
	}

	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, newFieldError("data", "marshaling normalized payload: "+err.Error())
	}
	return normalized, nil
}
