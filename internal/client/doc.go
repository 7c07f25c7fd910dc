// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It loads local state, restores the saved session and then runs the
// terminal UI next to the sync engine until the user quits.
package client
