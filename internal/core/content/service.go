// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package content

import (
	"context"
	"log/slog"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/internal/platform/validate"
	"github.com/plumeapp/plume/pkg/hierarchy"
	"github.com/plumeapp/plume/pkg/uuidv7"
)

const (
	FieldContent     = "content"
	FieldContentType = "content_type"
)

// # Service Layer

// Service orchestrates the business logic for content blocks.
type Service struct {
	contentRepo ContentRepository
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(contentRepo ContentRepository, logger *slog.Logger) *Service {
	return &Service{
		contentRepo: contentRepo,
		logger:      logger,
	}
}

// authorize verifies the actor may mutate the contents of a node.
func (service *Service) authorize(ctx context.Context, nodeID, actorID string, actorRole sec.UserRole) error {
	authorID, err := service.contentRepo.FindNodeOwner(ctx, nodeID)
	if err != nil {
		return err
	}
	if authorID != actorID && !actorRole.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You cannot modify this node's contents")
	}
	return nil
}

// validateBlock runs the shared field checks for create and update.
func validateBlock(contentType ContentType, payload string) error {
	validator := &validate.Validator{}
	validator.Custom(FieldContentType, !contentType.IsValid(), "Unknown content type")
	validator.Required(FieldContent, payload)
	validator.MaxLen(FieldContent, payload, MaxContentLength)
	return validator.Err()
}

// # Block Retrieval

/*
ListContents returns the ordered content blocks of a node.

Parameters:
  - context: context.Context
  - nodeID: string (UUID)

Returns:
  - []*NodeContent: Sorted by sort order, creation time
  - error: Storage failures
*/
func (service *Service) ListContents(context context.Context, nodeID string) ([]*NodeContent, error) {
	return service.contentRepo.ListByNode(context, nodeID)
}

/*
GetContent retrieves a single content block by its ID.

Returns:
  - *NodeContent: The hydrated domain entity
  - error: apperr.NotFound if missing
*/
func (service *Service) GetContent(context context.Context, id string) (*NodeContent, error) {
	return service.contentRepo.FindByID(context, id)
}

// # Block Lifecycle

// CreateContentInput holds the data required to attach a block to a node.
type CreateContentInput struct {
	ContentType ContentType
	Content     string
	Metadata    map[string]any
}

/*
CreateContent validates and persists a new content block.

Description: The block is appended at the end of the node's sequence.
Metadata is accepted as-is; its shape is a client concern keyed by the
block type.

Parameters:
  - context: context.Context
  - actorID: string (Caller)
  - actorRole: sec.UserRole
  - nodeID: string (Owner node)
  - input: CreateContentInput

Returns:
  - *NodeContent: Created entity
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreateContent(context context.Context, actorID string, actorRole sec.UserRole, nodeID string, input CreateContentInput) (*NodeContent, error) {
	if err := service.authorize(context, nodeID, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := validateBlock(input.ContentType, input.Content); err != nil {
		return nil, err
	}

	// Append at the end of the node's sequence.
	blocks, err := service.contentRepo.ListByNode(context, nodeID)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, block := range blocks {
		if block.SortOrder >= order {
			order = block.SortOrder + 1
		}
	}

	content := &NodeContent{
		ID:          uuidv7.New(),
		NodeID:      nodeID,
		ContentType: input.ContentType,
		Content:     input.Content,
		Metadata:    input.Metadata,
		SortOrder:   order,
	}

	if err := service.contentRepo.Create(context, content); err != nil {
		return nil, err
	}

	service.logger.Info("content_created",
		slog.String("content_id", content.ID),
		slog.String("node_id", nodeID),
		slog.String("content_type", string(content.ContentType)),
	)

	return content, nil
}

// UpdateContentInput holds a partial set of block changes.
// Nil fields are left untouched; PUT handlers populate every field.
type UpdateContentInput struct {
	ContentType *ContentType
	Content     *string
	Metadata    map[string]any
	SetMetadata bool
}

/*
UpdateContent applies changes to an existing content block.

Returns:
  - *NodeContent: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) UpdateContent(context context.Context, actorID string, actorRole sec.UserRole, contentID string, input UpdateContentInput) (*NodeContent, error) {
	content, err := service.contentRepo.FindByID(context, contentID)
	if err != nil {
		return nil, err
	}
	if err := service.authorize(context, content.NodeID, actorID, actorRole); err != nil {
		return nil, err
	}

	if input.ContentType != nil {
		content.ContentType = *input.ContentType
	}
	if input.Content != nil {
		content.Content = *input.Content
	}
	if input.SetMetadata {
		content.Metadata = input.Metadata
	}

	if err := validateBlock(content.ContentType, content.Content); err != nil {
		return nil, err
	}

	if err := service.contentRepo.Update(context, content); err != nil {
		return nil, err
	}

	service.logger.Info("content_updated", slog.String("content_id", content.ID))

	return content, nil
}

/*
DeleteContent removes a single content block.

Description: Deleting an already-deleted block yields 404 and has no
further side effects.
*/
func (service *Service) DeleteContent(context context.Context, actorID string, actorRole sec.UserRole, contentID string) error {
	content, err := service.contentRepo.FindByID(context, contentID)
	if err != nil {
		return err
	}
	if err := service.authorize(context, content.NodeID, actorID, actorRole); err != nil {
		return err
	}

	if err := service.contentRepo.Delete(context, contentID); err != nil {
		return err
	}

	service.logger.Info("content_deleted",
		slog.String("content_id", contentID),
		slog.String("actor_id", actorID),
	)

	return nil
}

// # Block Ordering

/*
ReorderContents applies a batch of {id, order} pairs to a node's blocks.

Description: The batch is validated against a fresh read of the node's
sequence before any write: duplicate orders, duplicate ids, negative
orders, and ids outside the node are all rejected up front. Application
is transactional.
*/
func (service *Service) ReorderContents(context context.Context, actorID string, actorRole sec.UserRole, nodeID string, updates []hierarchy.OrderUpdate) error {
	if err := service.authorize(context, nodeID, actorID, actorRole); err != nil {
		return err
	}

	blocks, err := service.contentRepo.ListByNode(context, nodeID)
	if err != nil {
		return err
	}

	if err := hierarchy.ValidateBatch(blocks, updates); err != nil {
		return apperr.Unprocessable(err.Error())
	}

	if err := service.contentRepo.UpdateOrders(context, nodeID, updates); err != nil {
		return err
	}

	service.logger.Info("contents_reordered",
		slog.String("node_id", nodeID),
		slog.Int("count", len(updates)),
	)

	return nil
}
