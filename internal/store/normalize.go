// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package store

import "strings"

// groupPrefix is the site-style path prefix that may precede a community
// name in discovered links ("g/gardening", "/g/gardening").
const groupPrefix = "g/"

// NormalizeName canonicalizes a community name: trim whitespace, lowercase,
// and strip a single leading group prefix. The operation is idempotent, so
// names arriving pre-normalized pass through unchanged.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "/")
	n = strings.TrimPrefix(n, groupPrefix)
	return n
}
