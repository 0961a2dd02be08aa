// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package comment provides the HTTP interface for node discussion.

# Routing Strategy

  - Public (v1): Paginated comment listing (GET /nodes/{nodeID}/comments).
  - Authenticated (v1): Posting, editing (author only), and deletion
    (author or moderator+).
*/
package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumeapp/plume/internal/platform/middleware"
	requestutil "github.com/plumeapp/plume/internal/platform/request"
	"github.com/plumeapp/plume/internal/platform/respond"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches comment endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Public listing
	api.Get("/nodes/{nodeID}/comments", handler.ListComments)

	// Authenticated interaction
	api.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Post("/nodes/{nodeID}/comments", handler.CreateComment)
		authenticated.Patch("/comments/{commentID}", handler.UpdateComment)
		authenticated.Delete("/comments/{commentID}", handler.DeleteComment)
	})
}

// # Comment Retrieval

/*
GET /api/v1/nodes/{nodeID}/comments.

Description: Returns a paginated list of comments, newest first.

Request:
  - nodeID: string (UUID)
  - page: int
  - limit: int

Response:
  - 200: []Comment: Page with pagination metadata
*/
func (handler *Handler) ListComments(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	paginationParams := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(), nodeID,
		paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments,
		pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// # Comment Creation

// commentRequest defines the inbound JSON schema for posting or editing.
type commentRequest struct {
	Content string `json:"content"`
}

/*
POST /api/v1/nodes/{nodeID}/comments.

Response:
  - 201: Comment: Created comment
  - 400: Validation: Empty or oversized content
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) CreateComment(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), authorID, nodeID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// # Comment Moderation

/*
PATCH /api/v1/comments/{commentID}.

Description: Edits a comment. Restricted to the comment's author;
the edit marks the comment as edited.

Response:
  - 200: Comment: Updated comment
  - 403: ErrForbidden: Not the comment's author
  - 404: ErrNotFound: Comment not found
*/
func (handler *Handler) UpdateComment(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), actorID, commentID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

/*
DELETE /api/v1/comments/{commentID}.

Description: Deletes a comment. Allowed for the author and for
moderators and above.

Response:
  - 204: Deleted
  - 403: ErrForbidden: Neither author nor moderator
  - 404: ErrNotFound: Comment not found
*/
func (handler *Handler) DeleteComment(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), claims.UserID, sec.UserRole(claims.Role), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
