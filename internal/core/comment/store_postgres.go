// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/database/schema"
	"github.com/plumeapp/plume/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(db *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

/*
ListByNode retrieves a page of comments, newest first.

Description: The total count rides along via a window function so one
round-trip serves both the page and the pagination metadata.
*/
func (repository *PostgresCommentRepository) ListByNode(ctx context.Context, nodeID string, limit, offset int) ([]*Comment, int, error) {
	t := schema.SocialComment
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		t.ID, t.NodeID, t.UserID, t.Content, t.IsEdited, t.CreatedAt, t.UpdatedAt,
		t.Table, t.NodeID, t.CreatedAt,
	)

	rows, err := repository.db.Query(ctx, query, nodeID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments_by_node")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	var totalCount int
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID, &comment.NodeID, &comment.AuthorID, &comment.Content,
			&comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, &comment)
	}

	return comments, totalCount, nil
}

func (repository *PostgresCommentRepository) FindByID(ctx context.Context, id string) (*Comment, error) {
	t := schema.SocialComment
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`, t.ID, t.NodeID, t.UserID, t.Content, t.IsEdited, t.CreatedAt, t.UpdatedAt, t.Table, t.ID)

	var comment Comment
	err := repository.db.QueryRow(ctx, query, id).Scan(
		&comment.ID, &comment.NodeID, &comment.AuthorID, &comment.Content,
		&comment.IsEdited, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment_by_id")
	}
	return &comment, nil
}

func (repository *PostgresCommentRepository) Create(ctx context.Context, comment *Comment) error {
	t := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`, t.Table, t.ID, t.NodeID, t.UserID, t.Content, t.IsEdited)

	_, err := repository.db.Exec(ctx, query,
		comment.ID, comment.NodeID, comment.AuthorID, comment.Content, comment.IsEdited,
	)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Update(ctx context.Context, comment *Comment) error {
	t := schema.SocialComment
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = TRUE, %s = NOW()
		WHERE %s = $2
	`, t.Table, t.Content, t.IsEdited, t.UpdatedAt, t.ID)

	result, err := repository.db.Exec(ctx, query, comment.Content, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

func (repository *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	t := schema.SocialComment
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	result, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
