// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package book provides the HTTP interface for managing an author's shelf.

# Routing Strategy

  - Public (v1): Single-book reads (GET /books/{bookID}).
  - Authenticated (v1): Shelf listing, creation, metadata updates,
    deletion, and the two reorder styles (directional move and batch).

The handler translates between the web/JSON layer and the internal
domain [Service].
*/
package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumeapp/plume/internal/platform/middleware"
	requestutil "github.com/plumeapp/plume/internal/platform/request"
	"github.com/plumeapp/plume/internal/platform/respond"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/hierarchy"
	"github.com/plumeapp/plume/pkg/pointer"
)

// # Handler Implementation

// Handler implements the HTTP layer for book management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new book [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches book endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Public read
	api.Get("/books/{bookID}", handler.GetBook)

	// Authenticated shelf management
	api.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Get("/books", handler.ListBooks)
		authenticated.Post("/books", handler.CreateBook)
		authenticated.Patch("/books/reorder", handler.ReorderBooks)
		authenticated.Put("/books/{bookID}", handler.ReplaceBook)
		authenticated.Patch("/books/{bookID}", handler.PatchBook)
		authenticated.Delete("/books/{bookID}", handler.DeleteBook)
		authenticated.Post("/books/{bookID}/move", handler.MoveBook)
	})
}

// # Shelf Retrieval

/*
GET /api/v1/books.

Description: Returns the caller's shelf, sorted by sort order.

Response:
  - 200: []Book: Ordered list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListBooks(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, err := handler.service.ListBooks(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, books)
}

/*
GET /api/v1/books/{bookID}.

Response:
  - 200: Book: The book metadata
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) GetBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

// # Book Creation

// createBookRequest defines the inbound JSON schema for a new book.
type createBookRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"cover_image_url"`
}

/*
POST /api/v1/books.

Description: Creates a new book at the end of the caller's shelf.

Response:
  - 201: Book: Created book object
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) CreateBook(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.CreateBook(request.Context(), authorID, CreateBookInput{
		Title:         input.Title,
		Description:   input.Description,
		CoverImageURL: input.CoverImageURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, book)
}

// # Metadata Updates

// updateBookRequest defines the inbound JSON schema for book updates.
// PUT sends every field; PATCH sends only the fields to change.
type updateBookRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"cover_image_url"`
}

/*
PUT /api/v1/books/{bookID}.

Description: Replaces the full mutable metadata of a book.

Response:
  - 200: Book: Updated book object
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) ReplaceBook(writer http.ResponseWriter, request *http.Request) {
	handler.applyUpdate(writer, request, true)
}

/*
PATCH /api/v1/books/{bookID}.

Description: Applies a partial metadata update to a book.

Response:
  - 200: Book: Updated book object
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) PatchBook(writer http.ResponseWriter, request *http.Request) {
	handler.applyUpdate(writer, request, false)
}

// applyUpdate is shared by PUT and PATCH. Replace mode coerces absent
// optional fields to empty rather than leaving them untouched.
func (handler *Handler) applyUpdate(writer http.ResponseWriter, request *http.Request, replace bool) {
	bookID := requestutil.ID(request, "bookID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateBookInput{
		Title:         input.Title,
		Description:   input.Description,
		CoverImageURL: input.CoverImageURL,
	}
	if replace {
		if update.Description == nil {
			update.Description = pointer.To("")
		}
		if update.CoverImageURL == nil {
			update.CoverImageURL = pointer.To("")
		}
	}

	book, err := handler.service.UpdateBook(request.Context(), claims.UserID, sec.UserRole(claims.Role), bookID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

// # Deletion

/*
DELETE /api/v1/books/{bookID}.

Description: Deletes a book and its entire hierarchy of nodes,
contents, and comments.

Response:
  - 204: Deleted
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: Book not found (repeat deletes included)
*/
func (handler *Handler) DeleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), claims.UserID, sec.UserRole(claims.Role), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Shelf Ordering

// moveRequest defines the inbound JSON schema for a directional move.
type moveRequest struct {
	Direction string `json:"direction"`
}

/*
POST /api/v1/books/{bookID}/move.

Description: Swaps the book with its adjacent neighbour on the shelf.
Moving past either end of the shelf succeeds without changes.

Response:
  - 204: Moved (or boundary no-op)
  - 400: Validation: Unknown direction
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) MoveBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input moveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.MoveBook(request.Context(), claims.UserID, sec.UserRole(claims.Role),
		bookID, hierarchy.Direction(input.Direction))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// reorderRequest defines the inbound JSON schema for a batch reorder.
type reorderRequest struct {
	Updates []hierarchy.OrderUpdate `json:"updates"`
}

/*
PATCH /api/v1/books/reorder.

Description: Applies a batch of {id, order} pairs to the caller's
shelf in one transaction. Invalid batches are rejected before any
write happens.

Response:
  - 204: Reordered
  - 401: ErrUnauthorized: Authentication required
  - 422: Unprocessable: Duplicate orders, out-of-scope ids, ...
*/
func (handler *Handler) ReorderBooks(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ReorderBooks(request.Context(), authorID, input.Updates); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
