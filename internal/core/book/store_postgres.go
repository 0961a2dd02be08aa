// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package book

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

// PostgresBookRepository implements [BookRepository] using pgx.
type PostgresBookRepository struct {
	db *pgxpool.Pool
}

// NewBookRepository constructs a PostgreSQL backed book store.
func NewBookRepository(db *pgxpool.Pool) *PostgresBookRepository {
	return &PostgresBookRepository{db: db}
}

// bookColumns is the canonical SELECT column list for hydrating a [Book].
func bookColumns() string {
	t := schema.CoreBook
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Title, t.Slug, t.Description, t.CoverImageURL,
		t.SortOrder, t.AuthorID, t.CreatedAt, t.UpdatedAt)
}

// scanBook hydrates a [Book] from a row exposing bookColumns.
func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var book Book
	err := row.Scan(
		&book.ID, &book.Title, &book.Slug, &book.Description,
		&book.CoverImageURL, &book.SortOrder, &book.AuthorID,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

/*
ListByAuthor retrieves the full ordered shelf of an author.

Description: Sorting is sort order first, creation time second, so
books sharing an order value keep a deterministic oldest-first layout.
*/
func (repository *PostgresBookRepository) ListByAuthor(ctx context.Context, authorID string) ([]*Book, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
	`, bookColumns(), t.Table, t.AuthorID, t.SortOrder, t.CreatedAt)

	rows, err := repository.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_books_by_author")
	}
	defer rows.Close()

	books := make([]*Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book")
		}
		books = append(books, book)
	}

	return books, nil
}

func (repository *PostgresBookRepository) FindByID(ctx context.Context, id string) (*Book, error) {
	t := schema.CoreBook
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, bookColumns(), t.Table, t.ID)

	book, err := scanBook(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_id")
	}
	return book, nil
}

func (repository *PostgresBookRepository) Create(ctx context.Context, book *Book) error {
	t := schema.CoreBook
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.Table, t.ID, t.Title, t.Slug, t.Description, t.CoverImageURL, t.SortOrder, t.AuthorID)

	_, err := repository.db.Exec(ctx, query,
		book.ID, book.Title, book.Slug, book.Description,
		book.CoverImageURL, book.SortOrder, book.AuthorID,
	)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}
	return nil
}

func (repository *PostgresBookRepository) Update(ctx context.Context, book *Book) error {
	t := schema.CoreBook
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $5
	`, t.Table, t.Title, t.Slug, t.Description, t.CoverImageURL, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query,
		book.Title, book.Slug, book.Description, book.CoverImageURL, book.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

/*
Delete removes a book row. The schema declares ON DELETE CASCADE from
nodes to books, so the entire hierarchy under the book falls with it.
*/
func (repository *PostgresBookRepository) Delete(ctx context.Context, id string) error {
	t := schema.CoreBook
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

/*
UpdateOrders applies every {id, order} pair inside one transaction.

Description: The author scope is part of each UPDATE predicate, so a
batch can never move another author's book even if validation upstream
were bypassed. A missing row aborts and rolls back the whole batch.
*/
func (repository *PostgresBookRepository) UpdateOrders(ctx context.Context, authorID string, updates []hierarchy.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	transaction, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_book_reorder")
	}
	defer transaction.Rollback(ctx)

	t := schema.CoreBook
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		t.Table, t.SortOrder, t.UpdatedAt, t.ID, t.AuthorID)

	batch := &pgx.Batch{}
	for _, update := range updates {
		batch.Queue(query, update.Order, update.ID, authorID)
	}

	results := transaction.SendBatch(ctx, batch)
	for i := 0; i < len(updates); i++ {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return dberr.Wrap(err, "apply_book_reorder")
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return apperr.NotFound("Book")
		}
	}
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "close_book_reorder_batch")
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_book_reorder")
	}
	return nil
}
