// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Linkmesh Contributors

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linkmesh-dev/linkmesh/internal/store"
)

// Compile-time interface check.
var _ store.GraphStore = (*GraphStore)(nil)

// GraphStore implements store.GraphStore backed by a single SQLite database.
type GraphStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at dbPath and initialises the
// nodes, edges, and memberships tables.
func New(dbPath string) (*GraphStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening graph db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging graph db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating graph db: %w", err)
	}

	return &GraphStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS nodes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	visited     INTEGER NOT NULL DEFAULT 0,
	subscribers INTEGER,
	sensitive   INTEGER,
	added_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_visited ON nodes(visited);
CREATE INDEX IF NOT EXISTS idx_nodes_name    ON nodes(name);

CREATE TABLE IF NOT EXISTS edges (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	from_id       INTEGER NOT NULL,
	to_id         INTEGER NOT NULL,
	discovered_at TEXT NOT NULL,
	UNIQUE (from_id, to_id),
	FOREIGN KEY (from_id) REFERENCES nodes(id),
	FOREIGN KEY (to_id)   REFERENCES nodes(id)
);

CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
CREATE INDEX IF NOT EXISTS idx_edges_to   ON edges(to_id);

CREATE TABLE IF NOT EXISTS memberships (
	group_name TEXT NOT NULL,
	node_name  TEXT NOT NULL,
	added_at   TEXT NOT NULL,
	PRIMARY KEY (group_name, node_name)
);

CREATE INDEX IF NOT EXISTS idx_memberships_group ON memberships(group_name);
CREATE INDEX IF NOT EXISTS idx_memberships_node  ON memberships(node_name);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (g *GraphStore) Close() error { return g.db.Close() }

func (g *GraphStore) UpsertNode(ctx context.Context, name string) (int64, error) {
	name = store.NormalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("upserting node: empty name: %w", store.ErrInvalidInput)
	}
	return upsertNode(ctx, g.db, name)
}

func (g *GraphStore) BulkUpsertNodes(ctx context.Context, names []string) ([]int64, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dbErr(err, "beginning bulk upsert tx")
	}
	defer tx.Rollback() //nolint:errcheck

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		name = store.NormalizeName(name)
		if name == "" {
			return nil, fmt.Errorf("bulk upserting nodes: empty name: %w", store.ErrInvalidInput)
		}
		id, err := upsertNode(ctx, tx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, dbErr(err, "committing bulk upsert")
	}
	return ids, nil
}

// querier abstracts *sql.DB and *sql.Tx for node upserts.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertNode(ctx context.Context, q querier, name string) (int64, error) {
	const insert = `INSERT INTO nodes (name, visited, added_at) VALUES (?, 0, ?)
ON CONFLICT(name) DO NOTHING`

	if _, err := q.ExecContext(ctx, insert, name, formatTime(time.Now())); err != nil {
		return 0, dbErr(err, "upserting node %q", name)
	}

	var id int64
	if err := q.QueryRowContext(ctx, `SELECT id FROM nodes WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, dbErr(err, "resolving id for node %q", name)
	}
	return id, nil
}

func (g *GraphStore) AddEdge(ctx context.Context, fromID, toID int64) error {
	if fromID == toID {
		return nil
	}

	// The endpoint-existence guard lives inside the statement so a missing
	// node results in zero rows inserted rather than a failed crawl batch.
	const q = `INSERT OR IGNORE INTO edges (from_id, to_id, discovered_at)
SELECT ?, ?, ?
WHERE EXISTS (SELECT 1 FROM nodes WHERE id = ?)
  AND EXISTS (SELECT 1 FROM nodes WHERE id = ?)`

	if _, err := g.db.ExecContext(ctx, q, fromID, toID, formatTime(time.Now()), fromID, toID); err != nil {
		return dbErr(err, "adding edge %d->%d", fromID, toID)
	}
	return nil
}

func (g *GraphStore) UpdateMetadata(ctx context.Context, name string, sensitive store.Sensitivity, subscribers int64) error {
	name = store.NormalizeName(name)
	if name == "" {
		return nil
	}

	// Both fields are written as a unit; a node that was never enqueued is
	// left untouched.
	const q = `UPDATE nodes SET sensitive = ?, subscribers = ? WHERE name = ?`
	if _, err := g.db.ExecContext(ctx, q, sensitiveValue(sensitive), subscribers, name); err != nil {
		return dbErr(err, "updating metadata for %q", name)
	}
	return nil
}

func (g *GraphStore) MarkVisited(ctx context.Context, name string) error {
	name = store.NormalizeName(name)
	if name == "" {
		return nil
	}

	if _, err := g.db.ExecContext(ctx, `UPDATE nodes SET visited = 1 WHERE name = ?`, name); err != nil {
		return dbErr(err, "marking %q visited", name)
	}
	return nil
}

func (g *GraphStore) SetMembership(ctx context.Context, group, node string) error {
	node = store.NormalizeName(node)
	if group == "" || node == "" {
		return fmt.Errorf("setting membership: empty group or node: %w", store.ErrInvalidInput)
	}

	const q = `INSERT INTO memberships (group_name, node_name, added_at) VALUES (?, ?, ?)
ON CONFLICT(group_name, node_name) DO UPDATE SET added_at = excluded.added_at`

	if _, err := g.db.ExecContext(ctx, q, group, node, formatTime(time.Now())); err != nil {
		return dbErr(err, "setting membership %s/%s", group, node)
	}
	return nil
}

func (g *GraphStore) NextUnvisited(ctx context.Context) (string, bool, error) {
	const q = `SELECT name FROM nodes WHERE visited = 0 ORDER BY id ASC LIMIT 1`

	var name string
	err := g.db.QueryRowContext(ctx, q).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, dbErr(err, "fetching next unvisited node")
	}
	return name, true, nil
}

func (g *GraphStore) CountUnvisited(ctx context.Context) (int64, error) {
	var n int64
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes WHERE visited = 0`).Scan(&n); err != nil {
		return 0, dbErr(err, "counting unvisited nodes")
	}
	return n, nil
}

func (g *GraphStore) ListIncomplete(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM nodes WHERE subscribers IS NULL OR sensitive IS NULL ORDER BY id ASC`

	rows, err := g.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dbErr(err, "listing incomplete nodes")
	}
	defer rows.Close() //nolint:errcheck // error on read-path close is not actionable

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, dbErr(err, "scanning incomplete node row")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterating incomplete nodes")
	}
	return names, nil
}

func (g *GraphStore) ListNodes(ctx context.Context) ([]store.Node, error) {
	const q = `SELECT id, name, visited, subscribers, sensitive, added_at FROM nodes ORDER BY id ASC`

	rows, err := g.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dbErr(err, "listing nodes")
	}
	defer rows.Close() //nolint:errcheck // error on read-path close is not actionable

	var nodes []store.Node
	for rows.Next() {
		var (
			n           store.Node
			visited     int64
			subscribers sql.NullInt64
			sensitive   sql.NullInt64
			addedAt     string
		)
		if err := rows.Scan(&n.ID, &n.Name, &visited, &subscribers, &sensitive, &addedAt); err != nil {
			return nil, dbErr(err, "scanning node row")
		}
		n.Visited = visited != 0
		if subscribers.Valid {
			v := subscribers.Int64
			n.Subscribers = &v
		}
		n.Sensitive = sensitivityOf(sensitive)
		n.AddedAt = parseTime(addedAt)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterating nodes")
	}
	return nodes, nil
}

func (g *GraphStore) ListEdges(ctx context.Context) ([]store.Edge, error) {
	const q = `SELECT id, from_id, to_id, discovered_at FROM edges ORDER BY from_id ASC, to_id ASC`

	rows, err := g.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dbErr(err, "listing edges")
	}
	defer rows.Close() //nolint:errcheck // error on read-path close is not actionable

	var edges []store.Edge
	for rows.Next() {
		var (
			e            store.Edge
			discoveredAt string
		)
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &discoveredAt); err != nil {
			return nil, dbErr(err, "scanning edge row")
		}
		e.DiscoveredAt = parseTime(discoveredAt)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterating edges")
	}
	return edges, nil
}

func (g *GraphStore) ListMemberships(ctx context.Context, group string) ([]store.Membership, error) {
	q := `SELECT group_name, node_name, added_at FROM memberships ORDER BY group_name, node_name`
	args := []any{}
	if group != "" {
		q = `SELECT group_name, node_name, added_at FROM memberships WHERE group_name = ? ORDER BY node_name`
		args = append(args, group)
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "listing memberships")
	}
	defer rows.Close() //nolint:errcheck // error on read-path close is not actionable

	var ms []store.Membership
	for rows.Next() {
		var (
			m       store.Membership
			addedAt string
		)
		if err := rows.Scan(&m.Group, &m.Node, &addedAt); err != nil {
			return nil, dbErr(err, "scanning membership row")
		}
		m.AddedAt = parseTime(addedAt)
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "iterating memberships")
	}
	return ms, nil
}

func (g *GraphStore) Stats(ctx context.Context) (store.Stats, error) {
	const q = `SELECT
	(SELECT COUNT(*) FROM nodes),
	(SELECT COUNT(*) FROM edges),
	(SELECT COUNT(*) FROM nodes WHERE visited = 1),
	(SELECT COUNT(*) FROM nodes WHERE visited = 0),
	(SELECT COUNT(*) FROM nodes WHERE subscribers IS NULL OR sensitive IS NULL)`

	var s store.Stats
	err := g.db.QueryRowContext(ctx, q).Scan(&s.Nodes, &s.Edges, &s.Visited, &s.Unvisited, &s.Incomplete)
	if err != nil {
		return store.Stats{}, dbErr(err, "reading store stats")
	}
	return s, nil
}

// ---------- helpers ----------

// dbErr tags an underlying database failure with store.ErrDatabase so batch
// callers can abort on errors.Is(err, store.ErrDatabase).
func dbErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w: %w", msg, store.ErrDatabase, err)
}

// sensitiveValue maps the tri-state flag onto the nullable column.
func sensitiveValue(s store.Sensitivity) any {
	switch s {
	case store.SensitivitySafe:
		return 0
	case store.SensitivityFlagged:
		return 1
	default:
		return nil
	}
}

func sensitivityOf(v sql.NullInt64) store.Sensitivity {
	if !v.Valid {
		return store.SensitivityUnknown
	}
	if v.Int64 != 0 {
		return store.SensitivityFlagged
	}
	return store.SensitivitySafe
}

// formatTime serialises a time.Time to RFC3339 for storage.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
