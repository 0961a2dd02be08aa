// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package book

import (
	"context"
	"errors"
	"log/slog"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/internal/platform/validate"
	"github.com/plumeapp/plume/pkg/hierarchy"
	"github.com/plumeapp/plume/pkg/slug"
	"github.com/plumeapp/plume/pkg/uuidv7"
)

const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldCoverImageURL = "cover_image_url"
	FieldDirection     = "direction"
)

// # Service Layer

// Service orchestrates the business logic for books.
type Service struct {
	bookRepo BookRepository
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(bookRepo BookRepository, logger *slog.Logger) *Service {
	return &Service{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// canManage reports whether the actor may mutate the given book.
// Owners manage their own shelf; moderators and admins manage any.
func canManage(book *Book, actorID string, actorRole sec.UserRole) bool {
	return book.AuthorID == actorID || actorRole.AtLeast(sec.RoleModerator)
}

// # Shelf Retrieval

/*
ListBooks returns the ordered shelf of a single author.

Parameters:
  - context: context.Context
  - authorID: string (UUID)

Returns:
  - []*Book: Sorted by sort order, creation time
  - error: Storage failures
*/
func (service *Service) ListBooks(context context.Context, authorID string) ([]*Book, error) {
	return service.bookRepo.ListByAuthor(context, authorID)
}

/*
GetBook retrieves a single book by its ID.

Returns:
  - *Book: The hydrated domain entity
  - error: apperr.NotFound if missing
*/
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.bookRepo.FindByID(context, id)
}

// # Book Lifecycle

// CreateBookInput holds the data required to start a new book.
type CreateBookInput struct {
	Title         string
	Description   *string
	CoverImageURL *string
}

/*
CreateBook validates and persists a brand new book for the author.

Description: The slug is derived from the title, and the new book is
appended at the end of the author's shelf (max sort order + 1).

Parameters:
  - context: context.Context
  - authorID: string (Owner)
  - input: CreateBookInput

Returns:
  - *Book: Created entity
  - error: Validation or persistence errors
*/
func (service *Service) CreateBook(context context.Context, authorID string, input CreateBookInput) (*Book, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title)
	validator.MaxLen(FieldTitle, input.Title, MaxTitleLength)
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if input.CoverImageURL != nil && *input.CoverImageURL != "" {
		validator.URL(FieldCoverImageURL, *input.CoverImageURL)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Append at the end of the shelf.
	shelf, err := service.bookRepo.ListByAuthor(context, authorID)
	if err != nil {
		return nil, err
	}
	nextOrder := 0
	for _, existing := range shelf {
		if existing.SortOrder >= nextOrder {
			nextOrder = existing.SortOrder + 1
		}
	}

	book := &Book{
		ID:            uuidv7.New(),
		Title:         input.Title,
		Slug:          slug.From(input.Title),
		Description:   input.Description,
		CoverImageURL: input.CoverImageURL,
		SortOrder:     nextOrder,
		AuthorID:      authorID,
	}

	if err := service.bookRepo.Create(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("author_id", authorID),
	)

	return book, nil
}

// UpdateBookInput holds a partial set of book metadata changes.
// Nil fields are left untouched; PUT handlers populate every field.
type UpdateBookInput struct {
	Title         *string
	Description   *string
	CoverImageURL *string
}

/*
UpdateBook applies metadata changes to an existing book.

Description: A title change regenerates the slug. Ownership is
enforced: only the author or a moderator+ may update.

Returns:
  - *Book: The updated entity
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) UpdateBook(context context.Context, actorID string, actorRole sec.UserRole, bookID string, input UpdateBookInput) (*Book, error) {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}
	if !canManage(book, actorID, actorRole) {
		return nil, apperr.Forbidden("You cannot modify this book")
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title)
		validator.MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if input.CoverImageURL != nil && *input.CoverImageURL != "" {
		validator.URL(FieldCoverImageURL, *input.CoverImageURL)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
		book.Slug = slug.From(*input.Title)
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	if input.CoverImageURL != nil {
		book.CoverImageURL = input.CoverImageURL
	}

	if err := service.bookRepo.Update(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_id", book.ID))

	return book, nil
}

/*
DeleteBook removes a book and its entire hierarchy.

Description: Nodes, contents, and comments fall with the book via
cascading foreign keys. Deleting an already-deleted book yields 404
and has no further side effects.
*/
func (service *Service) DeleteBook(context context.Context, actorID string, actorRole sec.UserRole, bookID string) error {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return err
	}
	if !canManage(book, actorID, actorRole) {
		return apperr.Forbidden("You cannot delete this book")
	}

	if err := service.bookRepo.Delete(context, bookID); err != nil {
		return err
	}

	service.logger.Info("book_deleted",
		slog.String("book_id", bookID),
		slog.String("actor_id", actorID),
	)

	return nil
}

// # Shelf Ordering

/*
MoveBook swaps a book with its adjacent neighbour on the author's shelf.

Description: Moving the first book up (or the last down) is a no-op,
not an error. The resulting order writes are applied in a single
transaction so a crash can never leave the swap half-done.

Parameters:
  - context: context.Context
  - actorID: string (Caller)
  - actorRole: sec.UserRole
  - bookID: string (Target)
  - direction: hierarchy.Direction (up, down)

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or validation errors
*/
func (service *Service) MoveBook(context context.Context, actorID string, actorRole sec.UserRole, bookID string, direction hierarchy.Direction) error {
	book, err := service.bookRepo.FindByID(context, bookID)
	if err != nil {
		return err
	}
	if !canManage(book, actorID, actorRole) {
		return apperr.Forbidden("You cannot reorder this book")
	}

	shelf, err := service.bookRepo.ListByAuthor(context, book.AuthorID)
	if err != nil {
		return err
	}

	updates, err := hierarchy.Move(shelf, bookID, direction)
	if err != nil {
		if errors.Is(err, hierarchy.ErrUnknownDirection) {
			return validate.RequiredError(FieldDirection, "Must be 'up' or 'down'")
		}
		return apperr.NotFound("Book")
	}

	// Boundary move: nothing to swap with.
	if len(updates) == 0 {
		return nil
	}

	if err := service.bookRepo.UpdateOrders(context, book.AuthorID, updates); err != nil {
		return err
	}

	service.logger.Info("book_moved",
		slog.String("book_id", bookID),
		slog.String("direction", string(direction)),
	)

	return nil
}

/*
ReorderBooks applies a batch of {id, order} pairs to the caller's shelf.

Description: The batch is validated against a fresh read of the shelf
before any write: duplicate orders, duplicate ids, negative orders, and
ids outside the caller's shelf are all rejected up front. Application
is transactional.
*/
func (service *Service) ReorderBooks(context context.Context, actorID string, updates []hierarchy.OrderUpdate) error {
	shelf, err := service.bookRepo.ListByAuthor(context, actorID)
	if err != nil {
		return err
	}

	if err := hierarchy.ValidateBatch(shelf, updates); err != nil {
		return apperr.Unprocessable(err.Error())
	}

	if err := service.bookRepo.UpdateOrders(context, actorID, updates); err != nil {
		return err
	}

	service.logger.Info("books_reordered",
		slog.String("author_id", actorID),
		slog.Int("count", len(updates)),
	)

	return nil
}
