// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package node provides the HTTP interface for book outline management.

# Routing Strategy

  - Public (v1): Outline reads, both flat (/books/{bookID}/nodes) and
    built (/books/{bookID}/nodes/tree).
  - Authenticated (v1): Structural mutations — create, update, reparent,
    delete, directional move, and batch reorder.

The handler translates between the web/JSON layer and the internal
domain [Service].
*/
package node

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

// Handler implements the HTTP layer for outline management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new node [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches outline endpoints to the root API router.
// Node endpoints span both /books/{bookID}/... and /nodes/... prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Public outline reads
	api.Get("/books/{bookID}/nodes", handler.ListNodes)
	api.Get("/books/{bookID}/nodes/tree", handler.GetTree)
	api.Get("/nodes/{nodeID}", handler.GetNode)

	// Authenticated structure management
	api.Group(func(authenticated chi.Router) {
		authenticated.Use(middleware.RequireAuth)

		authenticated.Post("/books/{bookID}/nodes", handler.CreateNode)
		authenticated.Patch("/books/{bookID}/nodes/reorder", handler.ReorderNodes)
		authenticated.Patch("/nodes/{nodeID}", handler.PatchNode)
		authenticated.Delete("/nodes/{nodeID}", handler.DeleteNode)
		authenticated.Post("/nodes/{nodeID}/move", handler.MoveNode)
	})
}

// # Outline Retrieval

/*
GET /api/v1/books/{bookID}/nodes.

Description: Returns the flat node list of a book, sort order ascending.

Response:
  - 200: []BookNode: Flat list
*/
func (handler *Handler) ListNodes(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	nodes, err := handler.service.ListNodes(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nodes)
}

/*
GET /api/v1/books/{bookID}/nodes/tree.

Description: Returns the built outline of a book — root nodes with
recursively nested, order-sorted children. Served from Redis when a
fresh entry exists.

Response:
  - 200: []Node: Built tree
*/
func (handler *Handler) GetTree(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	tree, err := handler.service.GetTree(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tree)
}

/*
GET /api/v1/nodes/{nodeID}.

Response:
  - 200: BookNode: The node
  - 404: ErrNotFound: Node not found
*/
func (handler *Handler) GetNode(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	node, err := handler.service.GetNode(request.Context(), nodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, node)
}

// # Node Creation

// createNodeRequest defines the inbound JSON schema for a new node.
type createNodeRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	NodeType    string  `json:"node_type"`
	ParentID    *string `json:"parent_id"`
}

/*
POST /api/v1/books/{bookID}/nodes.

Description: Adds a node to the book's outline, appended at the end of
its sibling set. The parent (when given) must belong to the same book.

Response:
  - 201: BookNode: Created node
  - 400: Validation: Invalid payload or cross-book parent
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Book or parent not found
*/
func (handler *Handler) CreateNode(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createNodeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	node, err := handler.service.CreateNode(request.Context(), claims.UserID, sec.UserRole(claims.Role), bookID, CreateNodeInput{
		Title:       input.Title,
		Description: input.Description,
		NodeType:    NodeType(input.NodeType),
		ParentID:    input.ParentID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, node)
}

// # Node Updates

// updateNodeRequest defines the inbound JSON schema for node updates.
//
// Reparenting: set parent_id to move under another node, or
// move_to_root to true to lift the node to the book's root level.
// Omitting both leaves the parent untouched.
type updateNodeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	NodeType    *string `json:"node_type"`
	IsPublished *bool   `json:"is_published"`
	ParentID    *string `json:"parent_id"`
	MoveToRoot  bool    `json:"move_to_root"`
}

/*
PATCH /api/v1/nodes/{nodeID}.

Description: Applies a partial update — retitle, retype, describe,
publish, or reparent. Reparenting under the node's own subtree or
across books is rejected as an integrity violation.

Response:
  - 200: BookNode: Updated node
  - 400: Validation: Invalid payload, cycle, or cross-book parent
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Node or new parent not found
*/
func (handler *Handler) PatchNode(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateNodeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateNodeInput{
		Title:       input.Title,
		Description: input.Description,
		IsPublished: input.IsPublished,
	}
	if input.NodeType != nil {
		nodeType := NodeType(*input.NodeType)
		update.NodeType = &nodeType
	}
	if input.ParentID != nil || input.MoveToRoot {
		update.Reparent = true
		if !input.MoveToRoot {
			update.ParentID = input.ParentID
		}
	}

	node, err := handler.service.UpdateNode(request.Context(), claims.UserID, sec.UserRole(claims.Role), nodeID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, node)
}

// # Deletion

/*
DELETE /api/v1/nodes/{nodeID}.

Description: Deletes the node and its entire subtree, including all
attached contents and comments.

Response:
  - 204: Deleted
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Node not found (repeat deletes included)
*/
func (handler *Handler) DeleteNode(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteNode(request.Context(), claims.UserID, sec.UserRole(claims.Role), nodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Outline Ordering

// moveRequest defines the inbound JSON schema for a directional move.
type moveRequest struct {
	Direction string `json:"direction"`
}

/*
POST /api/v1/nodes/{nodeID}/move.

Description: Swaps the node with its adjacent sibling. Moving past
either end of the sibling set succeeds without changes.

Response:
  - 204: Moved (or boundary no-op)
  - 400: Validation: Unknown direction
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Node not found
*/
func (handler *Handler) MoveNode(writer http.ResponseWriter, request *http.Request) {
	nodeID := requestutil.ID(request, "nodeID")

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

	err = handler.service.MoveNode(request.Context(), claims.UserID, sec.UserRole(claims.Role),
		nodeID, hierarchy.Direction(input.Direction))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// reorderRequest defines the inbound JSON schema for a batch reorder.
// parent_id selects the sibling set; nil targets the book's root level.
type reorderRequest struct {
	ParentID *string                 `json:"parent_id"`
	Updates  []hierarchy.OrderUpdate `json:"updates"`
}

/*
PATCH /api/v1/books/{bookID}/nodes/reorder.

Description: Applies a batch of {id, order} pairs to one sibling set in
one transaction. Invalid batches (duplicate orders, duplicate ids, ids
outside the sibling set, negative orders) are rejected before any
write happens.

Response:
  - 204: Reordered
  - 403: ErrForbidden: Not the book's author
  - 404: ErrNotFound: Book not found
  - 422: Unprocessable: Invalid batch
*/
func (handler *Handler) ReorderNodes(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "bookID")

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

	err = handler.service.ReorderNodes(request.Context(), claims.UserID, sec.UserRole(claims.Role),
		bookID, input.ParentID, input.Updates)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
