// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package engine

import "errors"

// Sentinel errors for identity lookups. Callers branch with errors.Is.
var (
	// ErrPageNotFound is returned when no page document has the given id.
	ErrPageNotFound = errors.New("page not found")

	// ErrSectionNotFound is returned when a page exists but has no section
	// with the given id.
	ErrSectionNotFound = errors.New("section not found")
)

// ValidationError reports a structurally invalid mutation request, such as a
// reorder list that is not a permutation of the page's section ids.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
