// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package node

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/internal/platform/validate"
	"github.com/plumeapp/plume/pkg/hierarchy"
	"github.com/plumeapp/plume/pkg/pointer"
	"github.com/plumeapp/plume/pkg/slice"
	"github.com/plumeapp/plume/pkg/uuidv7"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldNodeType    = "node_type"
	FieldParentID    = "parent_id"
	FieldDirection   = "direction"
)

// # Service Layer

// Service orchestrates the business logic for book outlines.
type Service struct {
	nodeRepo NodeRepository
	cache    TreeCache
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(nodeRepo NodeRepository, cache TreeCache, logger *slog.Logger) *Service {
	return &Service{
		nodeRepo: nodeRepo,
		cache:    cache,
		logger:   logger,
	}
}

// authorize verifies the actor may mutate the outline of a book.
// The book's author manages its outline; moderators and admins manage any.
func (service *Service) authorize(ctx context.Context, bookID, actorID string, actorRole sec.UserRole) error {
	authorID, err := service.nodeRepo.FindBookAuthor(ctx, bookID)
	if err != nil {
		return err
	}
	if authorID != actorID && !actorRole.AtLeast(sec.RoleModerator) {
		return apperr.Forbidden("You cannot modify this book's structure")
	}
	return nil
}

// siblingsOf filters the flat node list down to one sibling set.
func siblingsOf(nodes []*BookNode, parentID string) []*BookNode {
	return slice.Filter(nodes, func(node *BookNode) bool {
		return node.ItemParentID() == parentID
	})
}

// nextOrder returns the order value that appends after the given siblings.
func nextOrder(siblings []*BookNode) int {
	next := 0
	for _, sibling := range siblings {
		if sibling.SortOrder >= next {
			next = sibling.SortOrder + 1
		}
	}
	return next
}

// # Outline Retrieval

/*
ListNodes returns the flat, order-sorted node list of a book.

Parameters:
  - context: context.Context
  - bookID: string (UUID)

Returns:
  - []*BookNode: Flat list, sort order ascending
  - error: Storage failures
*/
func (service *Service) ListNodes(context context.Context, bookID string) ([]*BookNode, error) {
	return service.nodeRepo.ListByBook(context, bookID)
}

/*
GetTree returns the built outline of a book.

Description: Serves from the Redis cache when a fresh entry exists;
otherwise reads the flat list, builds the tree, and repopulates the
cache. Nodes referencing a missing parent surface at the root level
rather than disappearing.

Returns:
  - []*hierarchy.Node[*BookNode]: Root nodes with nested children
  - error: Storage failures
*/
func (service *Service) GetTree(context context.Context, bookID string) ([]*hierarchy.Node[*BookNode], error) {
	if tree, ok := service.cache.Get(context, bookID); ok {
		return tree, nil
	}

	nodes, err := service.nodeRepo.ListByBook(context, bookID)
	if err != nil {
		return nil, err
	}

	tree := hierarchy.BuildTree(nodes)
	service.cache.Set(context, bookID, tree)

	return tree, nil
}

/*
GetNode retrieves a single node by its ID.

Returns:
  - *BookNode: The hydrated domain entity
  - error: apperr.NotFound if missing
*/
func (service *Service) GetNode(context context.Context, id string) (*BookNode, error) {
	return service.nodeRepo.FindByID(context, id)
}

// # Node Lifecycle

// CreateNodeInput holds the data required to add a node to an outline.
type CreateNodeInput struct {
	Title       string
	Description *string
	NodeType    NodeType
	ParentID    *string // nil ⇒ root of the book
}

/*
CreateNode validates and persists a new outline element.

Description: The parent (when given) must exist and belong to the same
book. The node is appended at the end of its sibling set.

Parameters:
  - context: context.Context
  - actorID: string (Caller)
  - actorRole: sec.UserRole
  - bookID: string (Owner book)
  - input: CreateNodeInput

Returns:
  - *BookNode: Created entity
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreateNode(context context.Context, actorID string, actorRole sec.UserRole, bookID string, input CreateNodeInput) (*BookNode, error) {
	if err := service.authorize(context, bookID, actorID, actorRole); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title)
	validator.MaxLen(FieldTitle, input.Title, MaxTitleLength)
	validator.Custom(FieldNodeType, !input.NodeType.IsValid(), "Unknown node type")
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	nodes, err := service.nodeRepo.ListByBook(context, bookID)
	if err != nil {
		return nil, err
	}

	// Same-book parent check.
	parentKey := ""
	if input.ParentID != nil {
		parent, err := service.nodeRepo.FindByID(context, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.BookID != bookID {
			return nil, apperr.ValidationError("Parent node belongs to a different book")
		}
		parentKey = parent.ID
	}

	node := &BookNode{
		ID:          uuidv7.New(),
		BookID:      bookID,
		ParentID:    input.ParentID,
		Title:       input.Title,
		Description: input.Description,
		NodeType:    input.NodeType,
		SortOrder:   nextOrder(siblingsOf(nodes, parentKey)),
	}

	if err := service.nodeRepo.Create(context, node); err != nil {
		return nil, err
	}
	service.cache.Invalidate(context, bookID)

	service.logger.Info("node_created",
		slog.String("node_id", node.ID),
		slog.String("book_id", bookID),
		slog.String("node_type", string(node.NodeType)),
	)

	return node, nil
}

// UpdateNodeInput holds a partial set of node changes.
//
// Reparenting is explicit: Reparent must be true for ParentID to be
// applied, so "field absent" and "move to root" stay distinguishable.
type UpdateNodeInput struct {
	Title       *string
	Description *string
	NodeType    *NodeType
	IsPublished *bool
	Reparent    bool
	ParentID    *string // nil with Reparent ⇒ move to root
}

/*
UpdateNode applies changes to an existing outline element.

Description: Covers retitle, retype, describe, publish, and reparent.
A reparent enforces two integrity rules against a fresh read of the
book's nodes: the new parent must belong to the same book, and a node
may never be moved under itself or any of its own descendants. The
reparented node is appended at the end of its new sibling set.

Returns:
  - *BookNode: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) UpdateNode(context context.Context, actorID string, actorRole sec.UserRole, nodeID string, input UpdateNodeInput) (*BookNode, error) {
	node, err := service.nodeRepo.FindByID(context, nodeID)
	if err != nil {
		return nil, err
	}
	if err := service.authorize(context, node.BookID, actorID, actorRole); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title)
		validator.MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if input.NodeType != nil {
		validator.Custom(FieldNodeType, !input.NodeType.IsValid(), "Unknown node type")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		node.Title = *input.Title
	}
	if input.Description != nil {
		node.Description = input.Description
	}
	if input.NodeType != nil {
		node.NodeType = *input.NodeType
	}
	if input.IsPublished != nil {
		node.IsPublished = *input.IsPublished
		if *input.IsPublished {
			if node.PublishedAt == nil {
				node.PublishedAt = pointer.To(time.Now())
			}
		} else {
			node.PublishedAt = nil
		}
	}

	if input.Reparent {
		if err := service.reparent(context, node, input.ParentID); err != nil {
			return nil, err
		}
	}

	if err := service.nodeRepo.Update(context, node); err != nil {
		return nil, err
	}
	service.cache.Invalidate(context, node.BookID)

	service.logger.Info("node_updated", slog.String("node_id", node.ID))

	return node, nil
}

// reparent validates and applies a parent change on the node in place.
func (service *Service) reparent(ctx context.Context, node *BookNode, newParentID *string) error {
	nodes, err := service.nodeRepo.ListByBook(ctx, node.BookID)
	if err != nil {
		return err
	}

	parentKey := ""
	if newParentID != nil {
		parent, err := service.nodeRepo.FindByID(ctx, *newParentID)
		if err != nil {
			return err
		}
		if parent.BookID != node.BookID {
			return apperr.ValidationError("Parent node belongs to a different book")
		}
		// Cycle guard: the new parent may not be the node itself or any
		// node of its own subtree.
		if hierarchy.IsDescendant(nodes, node.ID, parent.ID) {
			return apperr.ValidationError("A node cannot be moved under itself or its descendants")
		}
		parentKey = parent.ID
	}

	node.ParentID = newParentID
	node.SortOrder = nextOrder(siblingsOf(nodes, parentKey))
	return nil
}

/*
DeleteNode removes an outline element and its entire subtree.

Description: Descendant nodes are collected and deleted in SQL; their
contents and comments fall to cascading foreign keys. Deleting an
already-deleted node yields 404 and has no further side effects.
*/
func (service *Service) DeleteNode(context context.Context, actorID string, actorRole sec.UserRole, nodeID string) error {
	node, err := service.nodeRepo.FindByID(context, nodeID)
	if err != nil {
		return err
	}
	if err := service.authorize(context, node.BookID, actorID, actorRole); err != nil {
		return err
	}

	if err := service.nodeRepo.DeleteSubtree(context, nodeID); err != nil {
		return err
	}
	service.cache.Invalidate(context, node.BookID)

	service.logger.Info("node_deleted",
		slog.String("node_id", nodeID),
		slog.String("book_id", node.BookID),
		slog.String("actor_id", actorID),
	)

	return nil
}

// # Outline Ordering

/*
MoveNode swaps a node with its adjacent sibling.

Description: The sibling set is the node's current parent's children,
freshly read. Moving the first sibling up (or the last down) is a
no-op, not an error. The two order writes land in one transaction.

Parameters:
  - context: context.Context
  - actorID: string (Caller)
  - actorRole: sec.UserRole
  - nodeID: string (Target)
  - direction: hierarchy.Direction (up, down)

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) MoveNode(context context.Context, actorID string, actorRole sec.UserRole, nodeID string, direction hierarchy.Direction) error {
	node, err := service.nodeRepo.FindByID(context, nodeID)
	if err != nil {
		return err
	}
	if err := service.authorize(context, node.BookID, actorID, actorRole); err != nil {
		return err
	}

	nodes, err := service.nodeRepo.ListByBook(context, node.BookID)
	if err != nil {
		return err
	}

	updates, err := hierarchy.Move(siblingsOf(nodes, node.ItemParentID()), nodeID, direction)
	if err != nil {
		if errors.Is(err, hierarchy.ErrUnknownDirection) {
			return validate.RequiredError(FieldDirection, "Must be 'up' or 'down'")
		}
		return apperr.NotFound("Node")
	}

	// Boundary move: nothing to swap with.
	if len(updates) == 0 {
		return nil
	}

	if err := service.nodeRepo.UpdateOrders(context, node.BookID, updates); err != nil {
		return err
	}
	service.cache.Invalidate(context, node.BookID)

	service.logger.Info("node_moved",
		slog.String("node_id", nodeID),
		slog.String("direction", string(direction)),
	)

	return nil
}

/*
ReorderNodes applies a batch of {id, order} pairs to one sibling set.

Description: The scope is the children of parentID (nil ⇒ the book's
root level), freshly read. The batch is validated before any write:
duplicate orders, duplicate ids, negative orders, and ids outside the
sibling set are all rejected up front. Application is transactional.
*/
func (service *Service) ReorderNodes(context context.Context, actorID string, actorRole sec.UserRole, bookID string, parentID *string, updates []hierarchy.OrderUpdate) error {
	if err := service.authorize(context, bookID, actorID, actorRole); err != nil {
		return err
	}

	nodes, err := service.nodeRepo.ListByBook(context, bookID)
	if err != nil {
		return err
	}

	parentKey := ""
	if parentID != nil {
		parentKey = *parentID
	}

	if err := hierarchy.ValidateBatch(siblingsOf(nodes, parentKey), updates); err != nil {
		return apperr.Unprocessable(err.Error())
	}

	if err := service.nodeRepo.UpdateOrders(context, bookID, updates); err != nil {
		return err
	}
	service.cache.Invalidate(context, bookID)

	service.logger.Info("nodes_reordered",
		slog.String("book_id", bookID),
		slog.Int("count", len(updates)),
	)

	return nil
}
