// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/database/schema"
	"github.com/plumeapp/plume/internal/platform/dberr"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # PostgreSQL Repository

// PostgresContentRepository implements [ContentRepository] using pgx.
//
// Metadata is stored as JSONB; pgx maps map[string]any transparently in
// both directions.
type PostgresContentRepository struct {
	db *pgxpool.Pool
}

// NewContentRepository constructs a PostgreSQL backed content store.
func NewContentRepository(db *pgxpool.Pool) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

// contentColumns is the canonical SELECT column list for hydrating a [NodeContent].
func contentColumns() string {
	t := schema.CoreNodeContent
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.NodeID, t.ContentType, t.Content, t.Metadata,
		t.SortOrder, t.CreatedAt, t.UpdatedAt)
}

// scanContent hydrates a [NodeContent] from a row exposing contentColumns.
func scanContent(row interface{ Scan(...any) error }) (*NodeContent, error) {
	var content NodeContent
	err := row.Scan(
		&content.ID, &content.NodeID, &content.ContentType, &content.Content,
		&content.Metadata, &content.SortOrder, &content.CreatedAt, &content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (repository *PostgresContentRepository) ListByNode(ctx context.Context, nodeID string) ([]*NodeContent, error) {
	t := schema.CoreNodeContent
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
	`, contentColumns(), t.Table, t.NodeID, t.SortOrder, t.CreatedAt)

	rows, err := repository.db.Query(ctx, query, nodeID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_contents_by_node")
	}
	defer rows.Close()

	contents := make([]*NodeContent, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_content")
		}
		contents = append(contents, content)
	}

	return contents, nil
}

func (repository *PostgresContentRepository) FindByID(ctx context.Context, id string) (*NodeContent, error) {
	t := schema.CoreNodeContent
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, contentColumns(), t.Table, t.ID)

	content, err := scanContent(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_content_by_id")
	}
	return content, nil
}

func (repository *PostgresContentRepository) Create(ctx context.Context, content *NodeContent) error {
	t := schema.CoreNodeContent
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.Table, t.ID, t.NodeID, t.ContentType, t.Content, t.Metadata, t.SortOrder)

	_, err := repository.db.Exec(ctx, query,
		content.ID, content.NodeID, content.ContentType,
		content.Content, content.Metadata, content.SortOrder,
	)
	if err != nil {
		return dberr.Wrap(err, "create_content")
	}
	return nil
}

func (repository *PostgresContentRepository) Update(ctx context.Context, content *NodeContent) error {
	t := schema.CoreNodeContent
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = NOW()
		WHERE %s = $4
	`, t.Table, t.ContentType, t.Content, t.Metadata, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query,
		content.ContentType, content.Content, content.Metadata, content.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_content")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Content block")
	}
	return nil
}

func (repository *PostgresContentRepository) Delete(ctx context.Context, id string) error {
	t := schema.CoreNodeContent
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_content")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Content block")
	}
	return nil
}

/*
UpdateOrders applies every {id, order} pair inside one transaction.

Description: The node scope is part of each UPDATE predicate, so a
batch can never touch a block outside the target node. A missing row
aborts and rolls back the whole batch.
*/
func (repository *PostgresContentRepository) UpdateOrders(ctx context.Context, nodeID string, updates []hierarchy.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	transaction, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_content_reorder")
	}
	defer transaction.Rollback(ctx)

	t := schema.CoreNodeContent
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		t.Table, t.SortOrder, t.UpdatedAt, t.ID, t.NodeID)

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(query, update.Order, update.ID, nodeID)
	}

	results := transaction.SendBatch(ctx, batch)
	for i := 0; i < len(updates); i++ {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return dberr.Wrap(err, "apply_content_reorder")
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return apperr.NotFound("Content block")
		}
	}
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "close_content_reorder_batch")
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_content_reorder")
	}
	return nil
}

func (repository *PostgresContentRepository) FindNodeOwner(ctx context.Context, nodeID string) (string, error) {
	node := schema.CoreBookNode
	book := schema.CoreBook
	query := fmt.Sprintf(`
		SELECT b.%s
		FROM %s n
		JOIN %s b ON n.%s = b.%s
		WHERE n.%s = $1
	`, book.AuthorID, node.Table, book.Table, node.BookID, book.ID, node.ID)

	var authorID string
	if err := repository.db.QueryRow(ctx, query, nodeID).Scan(&authorID); err != nil {
		return "", dberr.Wrap(err, "find_node_owner")
	}
	return authorID, nil
}
