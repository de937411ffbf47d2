// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error reports every schema violation found in a candidate payload, keyed by
// JSON field name. Nested list violations use dotted keys ("items.0.id").
type Error struct {
	Fields map[string]string
}

// Error implements the error interface. Fields are listed in sorted order so
// the message is stable.
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("schema validation failed")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("; %s: %s", k, e.Fields[k]))
	}
	return sb.String()
}

// newFieldError builds an Error for a single field.
func newFieldError(field, message string) *Error {
	return &Error{Fields: map[string]string{field: message}}
}

// fromValidation converts an ozzo validation error tree into a flat Error.
func fromValidation(err error) *Error {
	fields := make(map[string]string)
	flattenValidation("", err, fields)
	if len(fields) == 0 {
		fields["data"] = err.Error()
	}
	return &Error{Fields: fields}
}

// flattenValidation walks nested validation.Errors maps, joining keys with dots.
func flattenValidation(prefix string, err error, out map[string]string) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for key, nested := range verrs {
			full := key
			if prefix != "" {
				full = prefix + "." + key
			}
			flattenValidation(full, nested, out)
		}
		return
	}
	if prefix == "" {
		prefix = "data"
	}
	out[prefix] = err.Error()
}
