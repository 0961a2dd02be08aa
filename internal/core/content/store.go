// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package content

import (
	"context"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Content Data Access

// ContentRepository defines the data access contract for content blocks.
type ContentRepository interface {

	/*
		ListByNode returns every content block of a node, sorted by sort
		order (ties broken by creation time, oldest first).

		Parameters:
		  - context: context.Context
		  - nodeID: string (UUID)

		Returns:
		  - []*NodeContent: Ordered blocks
		  - error: Storage failures
	*/
	ListByNode(context context.Context, nodeID string) ([]*NodeContent, error)

	/*
		FindByID returns the content block with the given ID.

		Returns:
		  - *NodeContent: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*NodeContent, error)

	/*
		Create persists a new content block.
	*/
	Create(context context.Context, content *NodeContent) error

	/*
		Update overwrites the mutable fields of an existing block.

		Returns:
		  - error: apperr.NotFound if the block does not exist
	*/
	Update(context context.Context, content *NodeContent) error

	/*
		Delete removes a single content block.

		Returns:
		  - error: apperr.NotFound if the block does not exist
	*/
	Delete(context context.Context, id string) error

	/*
		UpdateOrders applies a set of {id, order} writes in a single
		transaction, scoped to one node. Either every update lands or
		none does.
	*/
	UpdateOrders(context context.Context, nodeID string, updates []hierarchy.OrderUpdate) error

	/*
		FindNodeOwner resolves the author of the book a node belongs to.
		Used for write authorization without a cross-package repository
		dependency.

		Returns:
		  - string: The author's user ID
		  - error: apperr.NotFound if the node does not exist
	*/
	FindNodeOwner(context context.Context, nodeID string) (string, error)
}
