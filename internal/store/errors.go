// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package store

import "errors"

// Sentinel errors for store operations.
// These errors can be checked using errors.Is() for classification.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input parameters are invalid or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDatabase indicates a durability failure (I/O, corruption, lock
	// contention). This is the only fatal condition in the store: it aborts
	// the enclosing batch operation.
	ErrDatabase = errors.New("database error")
)
