// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package book

import (
	"context"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Book Data Access

// BookRepository defines the data access contract for books.
type BookRepository interface {

	/*
		ListByAuthor returns every book owned by an author, sorted by
		sort order (ties broken by creation time, oldest first).

		Parameters:
		  - context: context.Context
		  - authorID: string (UUID)

		Returns:
		  - []*Book: The author's ordered shelf
		  - error: Storage failures
	*/
	ListByAuthor(context context.Context, authorID string) ([]*Book, error)

	/*
		FindByID returns the book with the given ID.

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Book, error)

	/*
		Create persists a new book.
	*/
	Create(context context.Context, book *Book) error

	/*
		Update overwrites the mutable metadata of an existing book.

		Returns:
		  - error: apperr.NotFound if the book does not exist
	*/
	Update(context context.Context, book *Book) error

	/*
		Delete removes a book. Nodes, contents, and comments beneath the
		book fall to ON DELETE CASCADE foreign keys.

		Returns:
		  - error: apperr.NotFound if the book does not exist
	*/
	Delete(context context.Context, id string) error

	/*
		UpdateOrders applies a set of {id, order} writes in a single
		transaction. Either every update lands or none does.
	*/
	UpdateOrders(context context.Context, authorID string, updates []hierarchy.OrderUpdate) error
}
