// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks client input before the document server acts on
// it: uploaded snapshots, account credentials and long-poll queries.
//
// A Validator is called with the value and, optionally, the names of the
// fields to check. Without field names every field of the value is checked.
// Unknown field names are reported with ErrUnknownField so that typos in
// callers fail loudly.
package validators

import "context"

// Validator validates arbitrary input values, optionally restricted to
// the named fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
