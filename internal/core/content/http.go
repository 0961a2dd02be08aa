// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package content provides the HTTP interface for node content blocks.

# Routing Strategy

  - Public (v1): Block reads (GET /nodes/{nodeID}/contents,
    GET /contents/{contentID}).
  - Authenticated (v1): Creation, updates, deletion, and batch reorder,
    restricted to the book's author or moderators.

The handler translates between the web/JSON layer and the internal
domain [Service].
*/
package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plumeapp/plume/internal/platform/middleware"
	requestutil "github.com/plumeapp/plume/internal/platform/request"
	"github.com/plumeapp/plume/internal/platform/respond"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Handler Implementation

// Handler implements the HTTP layer for content block management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new content [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches content endpoints to the root API router.
// Content endpoints span both /nodes/{nodeID}/... and /contents/... prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Public reads
	api.Get("/nodes/{nodeID}/contents", handler.ListContents)
	api.Get("/contents/{contentID}", handler.GetContent)

	// Authenticated block management
	api.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Post("/nodes/{nodeID}/contents", handler.CreateContent)
		authenticated.Patch("/nodes/{nodeID}/contents/reorder", handler.ReorderContents)
		authenticated.Put("/contents/{contentID}", handler.ReplaceContent)
		authenticated.Patch("/contents/{contentID}", handler.PatchContent)
		authenticated.Delete("/contents/{contentID}", handler.DeleteContent)
	})
}

// # Block Retrieval

/*
GET /api/v1/nodes/{nodeID}/contents.

Description: Returns the ordered content blocks of a node.

Response:
  - 200: []NodeContent: Ordered blocks
*/
func (handler *Handler) ListContents(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	contents, err := handler.service.ListContents(request.Context(), nodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, contents)
}

/*
GET /api/v1/contents/{contentID}.

Response:
  - 200: NodeContent: The block
  - 404: ErrNotFound: Block not found
*/
func (handler *Handler) GetContent(writer http.ResponseWriter, request *http.Request) {
	contentID := requestutil.ID(request, "contentID")

	content, err := handler.service.GetContent(request.Context(), contentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, content)
}

// # Block Creation

// createContentRequest defines the inbound JSON schema for a new block.
type createContentRequest struct {
	ContentType string         `json:"content_type"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata"`
}

/*
POST /api/v1/nodes/{nodeID}/contents.

Description: Attaches a content block at the end of the node's
sequence.

Response:
  - 201: NodeContent: Created block
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Node not found
*/
func (handler *Handler) CreateContent(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createContentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	content, err := handler.service.CreateContent(request.Context(), claims.UserID, sec.UserRole(claims.Role), nodeID, CreateContentInput{
		ContentType: ContentType(input.ContentType),
		Content:     input.Content,
		Metadata:    input.Metadata,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, content)
}

// # Block Updates

// updateContentRequest defines the inbound JSON schema for block updates.
// PUT sends every field; PATCH sends only the fields to change.
type updateContentRequest struct {
	ContentType *string        `json:"content_type"`
	Content     *string        `json:"content"`
	Metadata    map[string]any `json:"metadata"`
}

/*
PUT /api/v1/contents/{contentID}.

Description: Replaces the full mutable state of a block, metadata
included.

Response:
  - 200: NodeContent: Updated block
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Block not found
*/
func (handler *Handler) ReplaceContent(writer http.ResponseWriter, request *http.Request) {
	handler.applyUpdate(writer, request, true)
}

/*
PATCH /api/v1/contents/{contentID}.

Description: Applies a partial update. Metadata, when present, replaces
the stored object wholesale.

Response:
  - 200: NodeContent: Updated block
  - 400: Validation: Invalid payload
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Block not found
*/
func (handler *Handler) PatchContent(writer http.ResponseWriter, request *http.Request) {
	handler.applyUpdate(writer, request, false)
}

// applyUpdate is shared by PUT and PATCH. Replace mode always overwrites
// metadata; patch mode only when the field is present.
func (handler *Handler) applyUpdate(writer http.ResponseWriter, request *http.Request, replace bool) {
	contentID := requestutil.ID(request, "contentID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateContentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateContentInput{
		Content:     input.Content,
		Metadata:    input.Metadata,
		SetMetadata: replace || input.Metadata != nil,
	}
	if input.ContentType != nil {
		contentType := ContentType(*input.ContentType)
		update.ContentType = &contentType
	}

	content, err := handler.service.UpdateContent(request.Context(), claims.UserID, sec.UserRole(claims.Role), contentID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, content)
}

// # Deletion

/*
DELETE /api/v1/contents/{contentID}.

Response:
  - 204: Deleted
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Block not found (repeat deletes included)
*/
func (handler *Handler) DeleteContent(writer http.ResponseWriter, request *http.Request) {
	contentID := requestutil.ID(request, "contentID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteContent(request.Context(), claims.UserID, sec.UserRole(claims.Role), contentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Block Ordering

// reorderRequest defines the inbound JSON schema for a batch reorder.
type reorderRequest struct {
	Updates []hierarchy.OrderUpdate `json:"updates"`
}

/*
PATCH /api/v1/nodes/{nodeID}/contents/reorder.

Description: Applies a batch of {id, order} pairs to the node's blocks
in one transaction. Invalid batches are rejected before any write
happens.

Response:
  - 204: Reordered
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Node not found
  - 422: Unprocessable: Invalid batch
*/
func (handler *Handler) ReorderContents(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.ReorderContents(request.Context(), claims.UserID, sec.UserRole(claims.Role),
		nodeID, input.Updates)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
