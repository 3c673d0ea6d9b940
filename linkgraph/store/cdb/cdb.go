// Package cdb stores the link graph in CockroachDB or PostgreSQL through
// the lib/pq driver.
package cdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mycok/uCrawl/linkgraph/graph"
)

// Timeout applied to every single-row statement.
const queryTimeout = 5 * time.Second

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		url          TEXT UNIQUE NOT NULL,
		retrieved_at TIMESTAMPTZ NOT NULL DEFAULT '0001-01-01 00:00:00+00'
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		src        UUID NOT NULL REFERENCES links(id) ON DELETE CASCADE,
		dest       UUID NOT NULL REFERENCES links(id) ON DELETE CASCADE,
		updated_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT edge_links UNIQUE (src, dest)
	)`,
}

const (
	// retrieved_at only moves forward.
	upsertLinkSQL = `INSERT INTO links (url, retrieved_at) VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET retrieved_at = GREATEST(links.retrieved_at, $2)
		RETURNING id, retrieved_at`

	findLinkSQL = `SELECT id, url, retrieved_at FROM links WHERE id = $1`

	linksSQL = `SELECT id, url, retrieved_at FROM links
		WHERE retrieved_at < $1 ORDER BY url`

	upsertEdgeSQL = `INSERT INTO edges (src, dest, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (src, dest) DO UPDATE SET updated_at = NOW()
		RETURNING id, updated_at`

	edgesSQL = `SELECT id, src, dest, updated_at FROM edges WHERE src = $1`

	removeStaleEdgesSQL = `DELETE FROM edges WHERE src = $1 AND updated_at < $2`
)

// Static and compile-time check to ensure SQLGraph implements
// Graph interface.
var _ graph.Graph = (*SQLGraph)(nil)

// SQLGraph is a graph.Graph persisted in a links and an edges table.
type SQLGraph struct {
	db *sql.DB
}

// NewSQLGraph connects to the database at dsn and creates the links and
// edges tables unless they already exist.
func NewSQLGraph(dsn string) (*SQLGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	for _, stmt := range schema {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &SQLGraph{db: db}, nil
}

// Close closes the database handle.
func (s *SQLGraph) Close() error {
	return s.db.Close()
}

// UpsertLink inserts link or advances the RetrievedAt of the stored link
// with the same URL. link receives the stored id and RetrievedAt.
func (s *SQLGraph) UpsertLink(link *graph.Link) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, upsertLinkSQL, link.URL, link.RetrievedAt.UTC())
	if err := row.Scan(&link.ID, &link.RetrievedAt); err != nil {
		return fmt.Errorf("upsert link: %w", err)
	}

	link.RetrievedAt = link.RetrievedAt.UTC()

	return nil
}

// FindLink performs a link lookup by id.
func (s *SQLGraph) FindLink(id uuid.UUID) (*graph.Link, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, findLinkSQL, id)
	if err != nil {
		return nil, fmt.Errorf("find link: %w", err)
	}

	it := newLinkIterator(rows)
	defer func() { _ = it.Close() }()

	if !it.Next() {
		if err = it.Error(); err == nil {
			err = graph.ErrNotFound
		}

		return nil, fmt.Errorf("find link: %w", err)
	}

	return it.Link(), nil
}

// Links streams the links retrieved before retrievedBefore ordered by url.
func (s *SQLGraph) Links(retrievedBefore time.Time) (graph.LinkIterator, error) {
	rows, err := s.db.Query(linksSQL, retrievedBefore.UTC())
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}

	return newLinkIterator(rows), nil
}

// UpsertEdge inserts edge or refreshes the UpdatedAt of the existing edge
// between the same links. Unknown endpoints yield graph.ErrUnknownEdgeLinks.
func (s *SQLGraph) UpsertEdge(edge *graph.Edge) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, upsertEdgeSQL, edge.Src, edge.Dest)
	if err := row.Scan(&edge.ID, &edge.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			err = graph.ErrUnknownEdgeLinks
		}

		return fmt.Errorf("upsert edge: %w", err)
	}

	edge.UpdatedAt = edge.UpdatedAt.UTC()

	return nil
}

// RemoveStaleEdges deletes the edges leaving fromID that were last updated
// before updatedBefore.
func (s *SQLGraph) RemoveStaleEdges(fromID uuid.UUID, updatedBefore time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, removeStaleEdgesSQL, fromID, updatedBefore.UTC()); err != nil {
		return fmt.Errorf("remove stale edges: %w", err)
	}

	return nil
}

// Edges streams the edges leaving src.
func (s *SQLGraph) Edges(src uuid.UUID) (graph.EdgeIterator, error) {
	rows, err := s.db.Query(edgesSQL, src)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}

	return newEdgeIterator(rows), nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation"
}
