// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package comment

import "context"

// # Comment Data Access

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {

	/*
		ListByNode returns a page of comments for a node, newest first.

		Parameters:
		  - context: context.Context
		  - nodeID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Comment: Page of comments
		  - int: Total comments on the node
		  - error: Storage failures
	*/
	ListByNode(context context.Context, nodeID string, limit, offset int) ([]*Comment, int, error)

	/*
		FindByID returns the comment with the given ID.

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		Create persists a new comment.
	*/
	Create(context context.Context, comment *Comment) error

	/*
		Update overwrites the content of an existing comment and marks
		it as edited.

		Returns:
		  - error: apperr.NotFound if the comment does not exist
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes a comment.

		Returns:
		  - error: apperr.NotFound if the comment does not exist
	*/
	Delete(context context.Context, id string) error
}
