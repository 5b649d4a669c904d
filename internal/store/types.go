// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package store

import "time"

// Sensitivity is the tri-state content flag carried by a node. A node starts
// Unknown and stays Unknown until a metadata fetch succeeds; it is never
// modeled as a nullable bool.
type Sensitivity int

const (
	SensitivityUnknown Sensitivity = iota
	SensitivitySafe
	SensitivityFlagged
)

// String returns the lowercase label used in logs and CLI output.
func (s Sensitivity) String() string {
	switch s {
	case SensitivitySafe:
		return "safe"
	case SensitivityFlagged:
		return "flagged"
	default:
		return "unknown"
	}
}

// Known reports whether the flag has been resolved either way.
func (s Sensitivity) Known() bool {
	return s == SensitivitySafe || s == SensitivityFlagged
}

// SensitivityFromBool converts an upstream boolean flag into the enum.
func SensitivityFromBool(flagged bool) Sensitivity {
	if flagged {
		return SensitivityFlagged
	}
	return SensitivitySafe
}

// Node is a unique community entity tracked by the store. Subscribers is nil
// until a metadata fetch succeeds. Visited transitions false→true exactly
// once and never reverts.
type Node struct {
	ID          int64
	Name        string
	Visited     bool
	Subscribers *int64
	Sensitive   Sensitivity
	AddedAt     time.Time
}

// Edge is a directed, deduplicated discovered-link relation between two
// nodes. Edges are append-only: created once, never mutated.
type Edge struct {
	ID           int64
	FromID       int64
	ToID         int64
	DiscoveredAt time.Time
}

// Membership records that a node belongs to a curated external collection.
type Membership struct {
	Group   string
	Node    string
	AddedAt time.Time
}

// Stats is a point-in-time count summary of the store.
type Stats struct {
	Nodes      int64 `json:"nodes"`
	Edges      int64 `json:"edges"`
	Visited    int64 `json:"visited"`
	Unvisited  int64 `json:"unvisited"`
	Incomplete int64 `json:"incomplete"`
}
