// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/internal/platform/validate"
	"github.com/plumeapp/plume/pkg/uuidv7"
)

const FieldContent = "content"

// # Service Layer

// Service orchestrates the business logic for comments.
type Service struct {
	commentRepo CommentRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(commentRepo CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// # Comment Retrieval

/*
ListComments returns a page of comments for a node, newest first.

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
func (service *Service) ListComments(context context.Context, nodeID string, limit, offset int) ([]*Comment, int, error) {
	return service.commentRepo.ListByNode(context, nodeID, limit, offset)
}

// # Comment Lifecycle

/*
CreateComment validates and persists a new comment.

Description: Any authenticated member may comment on a node.

Parameters:
  - context: context.Context
  - authorID: string (Caller)
  - nodeID: string (Target node)
  - body: string (Comment text)

Returns:
  - *Comment: Created entity
  - error: Validation or persistence errors
*/
func (service *Service) CreateComment(context context.Context, authorID, nodeID, body string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, body)
	validator.MaxLen(FieldContent, body, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuidv7.New(),
		NodeID:   nodeID,
		AuthorID: authorID,
		Content:  body,
	}

	if err := service.commentRepo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("node_id", nodeID),
	)

	return comment, nil
}

/*
UpdateComment applies an edit to an existing comment.

Description: Only the comment's author may edit it; the edit marks
the comment as edited permanently.

Returns:
  - *Comment: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) UpdateComment(context context.Context, actorID, commentID, body string) (*Comment, error) {
	comment, err := service.commentRepo.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, body)
	validator.MaxLen(FieldContent, body, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment.Content = body
	comment.IsEdited = true

	if err := service.commentRepo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", comment.ID))

	return comment, nil
}

/*
DeleteComment removes a comment.

Description: The comment's author may delete it; moderators and admins
may remove any comment.

Returns:
  - error: apperr.NotFound or apperr.Forbidden
*/
func (service *Service) DeleteComment(context context.Context, actorID string, actorRole sec.UserRole, commentID string) error {
	comment, err := service.commentRepo.FindByID(context, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID && !actorRole.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You cannot delete this comment")
	}

	if err := service.commentRepo.Delete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", commentID),
		slog.String("actor_id", actorID),
	)

	return nil
}
