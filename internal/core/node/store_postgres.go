// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package node

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

// PostgresNodeRepository implements [NodeRepository] using pgx.
type PostgresNodeRepository struct {
	db *pgxpool.Pool
}

// NewNodeRepository constructs a PostgreSQL backed node store.
func NewNodeRepository(db *pgxpool.Pool) *PostgresNodeRepository {
	return &PostgresNodeRepository{db: db}
}

// nodeColumns is the canonical SELECT column list for hydrating a [BookNode].
func nodeColumns() string {
	t := schema.CoreBookNode
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.BookID, t.ParentID, t.Title, t.Description, t.NodeType,
		t.SortOrder, t.IsPublished, t.PublishedAt, t.CreatedAt, t.UpdatedAt)
}

// scanNode hydrates a [BookNode] from a row exposing nodeColumns.
func scanNode(row interface{ Scan(...any) error }) (*BookNode, error) {
	var node BookNode
	err := row.Scan(
		&node.ID, &node.BookID, &node.ParentID, &node.Title,
		&node.Description, &node.NodeType, &node.SortOrder,
		&node.IsPublished, &node.PublishedAt, &node.CreatedAt, &node.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

/*
ListByBook retrieves the full flat node list of a book.

Description: Sorting is sort order first, creation time second, which
gives nodes sharing an order value a deterministic oldest-first layout
before the stable in-memory tree sort.
*/
func (repository *PostgresNodeRepository) ListByBook(ctx context.Context, bookID string) ([]*BookNode, error) {
	t := schema.CoreBookNode
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
	`, nodeColumns(), t.Table, t.BookID, t.SortOrder, t.CreatedAt)

	rows, err := repository.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_nodes_by_book")
	}
	defer rows.Close()

	nodes := make([]*BookNode, 0)
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_node")
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

func (repository *PostgresNodeRepository) FindByID(ctx context.Context, id string) (*BookNode, error) {
	t := schema.CoreBookNode
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, nodeColumns(), t.Table, t.ID)

	node, err := scanNode(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_node_by_id")
	}
	return node, nil
}

func (repository *PostgresNodeRepository) Create(ctx context.Context, node *BookNode) error {
	t := schema.CoreBookNode
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.Table, t.ID, t.BookID, t.ParentID, t.Title, t.Description,
		t.NodeType, t.SortOrder, t.IsPublished, t.PublishedAt)

	_, err := repository.db.Exec(ctx, query,
		node.ID, node.BookID, node.ParentID, node.Title, node.Description,
		node.NodeType, node.SortOrder, node.IsPublished, node.PublishedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_node")
	}
	return nil
}

func (repository *PostgresNodeRepository) Update(ctx context.Context, node *BookNode) error {
	t := schema.CoreBookNode
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8
	`, t.Table, t.ParentID, t.Title, t.Description, t.NodeType,
		t.SortOrder, t.IsPublished, t.PublishedAt, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query,
		node.ParentID, node.Title, node.Description, node.NodeType,
		node.SortOrder, node.IsPublished, node.PublishedAt, node.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_node")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Node")
	}
	return nil
}

/*
UpdateOrders applies every {id, order} pair inside one transaction.

Description: The book scope is part of each UPDATE predicate, so a
batch can never touch a node outside the target book. A missing row
aborts and rolls back the whole batch.
*/
func (repository *PostgresNodeRepository) UpdateOrders(ctx context.Context, bookID string, updates []hierarchy.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	transaction, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_node_reorder")
	}
	defer transaction.Rollback(ctx)

	t := schema.CoreBookNode
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		t.Table, t.SortOrder, t.UpdatedAt, t.ID, t.BookID)

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(query, update.Order, update.ID, bookID)
	}

	results := transaction.SendBatch(ctx, batch)
	for i := 0; i < len(updates); i++ {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return dberr.Wrap(err, "apply_node_reorder")
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return apperr.NotFound("Node")
		}
	}
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "close_node_reorder_batch")
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_node_reorder")
	}
	return nil
}

/*
DeleteSubtree removes a node and all its descendants in one statement.

Description: A recursive CTE walks the parent pointers downward from
the target node and deletes the collected id set. Content blocks and
comments referencing deleted nodes fall to their ON DELETE CASCADE
foreign keys, so the whole branch disappears atomically.
*/
func (repository *PostgresNodeRepository) DeleteSubtree(ctx context.Context, nodeID string) error {
	t := schema.CoreBookNode
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT %s FROM %s WHERE %s = $1
			UNION ALL
			SELECT n.%s FROM %s n
			JOIN subtree s ON n.%s = s.%s
		)
		DELETE FROM %s WHERE %s IN (SELECT %s FROM subtree)
	`,
		t.ID, t.Table, t.ID,
		t.ID, t.Table,
		t.ParentID, t.ID,
		t.Table, t.ID, t.ID,
	)

	result, err := repository.db.Exec(ctx, query, nodeID)
	if err != nil {
		return dberr.Wrap(err, "delete_node_subtree")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Node")
	}
	return nil
}

func (repository *PostgresNodeRepository) FindBookAuthor(ctx context.Context, bookID string) (string, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.AuthorID, t.Table, t.ID)

	var authorID string
	if err := repository.db.QueryRow(ctx, query, bookID).Scan(&authorID); err != nil {
		return "", dberr.Wrap(err, "find_book_author")
	}
	return authorID, nil
}
