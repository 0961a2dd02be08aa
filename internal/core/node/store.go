// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package node

import (
	"context"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Node Data Access

// NodeRepository defines the data access contract for book nodes.
type NodeRepository interface {

	/*
		ListByBook returns every node of a book as a flat list, sorted by
		sort order (ties broken by creation time, oldest first). This is
		the single read the hierarchy package builds trees from.

		Parameters:
		  - context: context.Context
		  - bookID: string (UUID)

		Returns:
		  - []*BookNode: Flat ordered list
		  - error: Storage failures
	*/
	ListByBook(context context.Context, bookID string) ([]*BookNode, error)

	/*
		FindByID returns the node with the given ID.

		Returns:
		  - *BookNode: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*BookNode, error)

	/*
		Create persists a new node.
	*/
	Create(context context.Context, node *BookNode) error

	/*
		Update overwrites the mutable fields of an existing node,
		including its parent pointer.

		Returns:
		  - error: apperr.NotFound if the node does not exist
	*/
	Update(context context.Context, node *BookNode) error

	/*
		UpdateOrders applies a set of {id, order} writes in a single
		transaction, scoped to one book. Either every update lands or
		none does.
	*/
	UpdateOrders(context context.Context, bookID string, updates []hierarchy.OrderUpdate) error

	/*
		DeleteSubtree removes a node and every descendant in one SQL
		statement (recursive CTE). Contents and comments attached to
		deleted nodes fall to ON DELETE CASCADE foreign keys.

		Returns:
		  - error: apperr.NotFound if the root node does not exist
	*/
	DeleteSubtree(context context.Context, nodeID string) error

	/*
		FindBookAuthor resolves the author of the book owning a node
		hierarchy. Used for write authorization without a cross-package
		repository dependency.

		Returns:
		  - string: The author's user ID
		  - error: apperr.NotFound if the book does not exist
	*/
	FindBookAuthor(context context.Context, bookID string) (string, error)
}

// # Tree Cache

// TreeCache caches the built outline of a book keyed by book ID.
//
// A cache read may briefly race a concurrent delete and serve a
// just-removed node; every structural mutation invalidates the entry so
// the window is one round-trip wide.
type TreeCache interface {

	// Get returns the cached tree for a book, or ok=false on a miss.
	// Cache errors degrade to a miss; they never fail the request.
	Get(context context.Context, bookID string) (tree []*hierarchy.Node[*BookNode], ok bool)

	// Set stores the built tree for a book.
	Set(context context.Context, bookID string, tree []*hierarchy.Node[*BookNode])

	// Invalidate drops the cached tree for a book.
	Invalidate(context context.Context, bookID string)
}
