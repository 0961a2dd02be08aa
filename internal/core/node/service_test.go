// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package node_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/internal/core/node"
	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # In-Memory Fakes

// fakeNodeRepo is an in-memory [node.NodeRepository]. It mimics the
// Postgres contract, including the cascade semantics of DeleteSubtree
// (descendants plus attached contents and comments).
type fakeNodeRepo struct {
	nodes       []*node.BookNode
	bookAuthors map[string]string

	// Attachment counts per node, standing in for the rows the real
	// schema removes via ON DELETE CASCADE.
	contents map[string]int
	comments map[string]int

	listCalls   int
	orderWrites int
}

func newFakeNodeRepo() *fakeNodeRepo {
	return &fakeNodeRepo{
		bookAuthors: make(map[string]string),
		contents:    make(map[string]int),
		comments:    make(map[string]int),
	}
}

func (repo *fakeNodeRepo) ListByBook(_ context.Context, bookID string) ([]*node.BookNode, error) {
	repo.listCalls++
	var out []*node.BookNode
	for _, n := range repo.nodes {
		if n.BookID == bookID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (repo *fakeNodeRepo) FindByID(_ context.Context, id string) (*node.BookNode, error) {
	for _, n := range repo.nodes {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Node")
}

func (repo *fakeNodeRepo) Create(_ context.Context, n *node.BookNode) error {
	copied := *n
	repo.nodes = append(repo.nodes, &copied)
	return nil
}

func (repo *fakeNodeRepo) Update(_ context.Context, n *node.BookNode) error {
	for i, existing := range repo.nodes {
		if existing.ID == n.ID {
			copied := *n
			repo.nodes[i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Node")
}

func (repo *fakeNodeRepo) UpdateOrders(_ context.Context, bookID string, updates []hierarchy.OrderUpdate) error {
	// All-or-nothing, like the transactional batch in Postgres.
	targets := make(map[string]*node.BookNode, len(updates))
	for _, update := range updates {
		found := false
		for _, n := range repo.nodes {
			if n.ID == update.ID && n.BookID == bookID {
				targets[update.ID] = n
				found = true
				break
			}
		}
		if !found {
			return apperr.NotFound("Node")
		}
	}
	for _, update := range updates {
		targets[update.ID].SortOrder = update.Order
	}
	repo.orderWrites++
	return nil
}

func (repo *fakeNodeRepo) DeleteSubtree(_ context.Context, nodeID string) error {
	root, err := repo.FindByID(context.Background(), nodeID)
	if err != nil {
		return err
	}

	var bookNodes []*node.BookNode
	for _, n := range repo.nodes {
		if n.BookID == root.BookID {
			bookNodes = append(bookNodes, n)
		}
	}
	doomed := make(map[string]bool)
	for _, id := range hierarchy.Subtree(bookNodes, nodeID) {
		doomed[id] = true
	}

	var kept []*node.BookNode
	for _, n := range repo.nodes {
		if doomed[n.ID] {
			delete(repo.contents, n.ID)
			delete(repo.comments, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	repo.nodes = kept
	return nil
}

func (repo *fakeNodeRepo) FindBookAuthor(_ context.Context, bookID string) (string, error) {
	author, ok := repo.bookAuthors[bookID]
	if !ok {
		return "", apperr.NotFound("Book")
	}
	return author, nil
}

// fakeTreeCache is an in-memory [node.TreeCache] recording invalidations.
type fakeTreeCache struct {
	entries       map[string][]*hierarchy.Node[*node.BookNode]
	invalidations int
}

func newFakeTreeCache() *fakeTreeCache {
	return &fakeTreeCache{entries: make(map[string][]*hierarchy.Node[*node.BookNode])}
}

func (cache *fakeTreeCache) Get(_ context.Context, bookID string) ([]*hierarchy.Node[*node.BookNode], bool) {
	tree, ok := cache.entries[bookID]
	return tree, ok
}

func (cache *fakeTreeCache) Set(_ context.Context, bookID string, tree []*hierarchy.Node[*node.BookNode]) {
	cache.entries[bookID] = tree
}

func (cache *fakeTreeCache) Invalidate(_ context.Context, bookID string) {
	delete(cache.entries, bookID)
	cache.invalidations++
}

// # Fixture

const (
	testBookID   = "book-1"
	testAuthorID = "author-1"
	strangerID   = "stranger-1"
)

type fixture struct {
	repo    *fakeNodeRepo
	cache   *fakeTreeCache
	service *node.Service
}

func newFixture() *fixture {
	repo := newFakeNodeRepo()
	repo.bookAuthors[testBookID] = testAuthorID
	cache := newFakeTreeCache()
	return &fixture{
		repo:    repo,
		cache:   cache,
		service: node.NewService(repo, cache, slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

// addNode seeds a node directly into the fake store.
func (f *fixture) addNode(id, parentID string, order int, nodeType node.NodeType) *node.BookNode {
	n := &node.BookNode{
		ID:        id,
		BookID:    testBookID,
		Title:     id,
		NodeType:  nodeType,
		SortOrder: order,
		CreatedAt: time.Now(),
	}
	if parentID != "" {
		n.ParentID = &parentID
	}
	f.repo.nodes = append(f.repo.nodes, n)
	return n
}

// # Tree Retrieval

/*
TestService_GetTree_BuildsNestedOutline verifies the flat list becomes
a properly nested, order-sorted tree: Part I holding Chapter 1 then
Chapter 2.
*/
func TestService_GetTree_BuildsNestedOutline(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)
	f.addNode("ch-2", "part-1", 1, node.NodeTypeChapter)
	f.addNode("ch-1", "part-1", 0, node.NodeTypeChapter)

	tree, err := f.service.GetTree(context.Background(), testBookID)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "part-1", tree[0].Item.ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "ch-1", tree[0].Children[0].Item.ID)
	assert.Equal(t, "ch-2", tree[0].Children[1].Item.ID)
}

func TestService_GetTree_ServesFromCache(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)

	_, err := f.service.GetTree(context.Background(), testBookID)
	require.NoError(t, err)
	_, err = f.service.GetTree(context.Background(), testBookID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.repo.listCalls, "second read must hit the cache")
}

// # Creation

func TestService_CreateNode_AppendsToSiblingSet(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)
	f.addNode("ch-1", "part-1", 0, node.NodeTypeChapter)
	f.addNode("ch-2", "part-1", 1, node.NodeTypeChapter)

	parentID := "part-1"
	created, err := f.service.CreateNode(context.Background(), testAuthorID, sec.RoleAuthor, testBookID, node.CreateNodeInput{
		Title:    "Chapter 3",
		NodeType: node.NodeTypeChapter,
		ParentID: &parentID,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, created.SortOrder)
	assert.Equal(t, testBookID, created.BookID)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestService_CreateNode_Rejections(t *testing.T) {
	otherParent := "other-node"

	tests := []struct {
		name     string
		actorID  string
		role     sec.UserRole
		input    node.CreateNodeInput
		wantCode string
	}{
		{
			name:     "stranger_forbidden",
			actorID:  strangerID,
			role:     sec.RoleAuthor,
			input:    node.CreateNodeInput{Title: "X", NodeType: node.NodeTypeChapter},
			wantCode: "FORBIDDEN",
		},
		{
			name:     "unknown_node_type",
			actorID:  testAuthorID,
			role:     sec.RoleAuthor,
			input:    node.CreateNodeInput{Title: "X", NodeType: node.NodeType("SCROLL")},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "empty_title",
			actorID:  testAuthorID,
			role:     sec.RoleAuthor,
			input:    node.CreateNodeInput{Title: "  ", NodeType: node.NodeTypeChapter},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "cross_book_parent",
			actorID:  testAuthorID,
			role:     sec.RoleAuthor,
			input:    node.CreateNodeInput{Title: "X", NodeType: node.NodeTypeChapter, ParentID: &otherParent},
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.bookAuthors["book-2"] = testAuthorID
			other := f.addNode("other-node", "", 0, node.NodeTypePart)
			other.BookID = "book-2"

			_, err := f.service.CreateNode(context.Background(), tt.actorID, tt.role, testBookID, tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

func TestService_CreateNode_ModeratorMayEditForeignBook(t *testing.T) {
	f := newFixture()

	_, err := f.service.CreateNode(context.Background(), strangerID, sec.RoleModerator, testBookID, node.CreateNodeInput{
		Title:    "Editorial note",
		NodeType: node.NodeTypeArticle,
	})
	assert.NoError(t, err)
}

// # Reparenting

func TestService_UpdateNode_ReparentRejectsCycles(t *testing.T) {
	// a → b → c, then try to hang a under its own grandchild.
	f := newFixture()
	f.addNode("a", "", 0, node.NodeTypePart)
	f.addNode("b", "a", 0, node.NodeTypeChapter)
	f.addNode("c", "b", 0, node.NodeTypeSection)

	tests := []struct {
		name      string
		target    string
		newParent string
	}{
		{"under_grandchild", "a", "c"},
		{"under_child", "a", "b"},
		{"under_itself", "a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := tt.newParent
			_, err := f.service.UpdateNode(context.Background(), testAuthorID, sec.RoleAuthor, tt.target, node.UpdateNodeInput{
				Reparent: true,
				ParentID: &parent,
			})
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestService_UpdateNode_ReparentAppendsToNewSiblings(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)
	f.addNode("part-2", "", 1, node.NodeTypePart)
	f.addNode("ch-1", "part-1", 0, node.NodeTypeChapter)
	f.addNode("ch-2", "part-2", 0, node.NodeTypeChapter)
	f.addNode("ch-3", "part-2", 1, node.NodeTypeChapter)

	newParent := "part-2"
	updated, err := f.service.UpdateNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1", node.UpdateNodeInput{
		Reparent: true,
		ParentID: &newParent,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.ParentID)
	assert.Equal(t, "part-2", *updated.ParentID)
	assert.Equal(t, 2, updated.SortOrder, "reparented node lands after existing siblings")
}

func TestService_UpdateNode_MoveToRoot(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)
	f.addNode("ch-1", "part-1", 0, node.NodeTypeChapter)

	updated, err := f.service.UpdateNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1", node.UpdateNodeInput{
		Reparent: true,
		ParentID: nil,
	})
	require.NoError(t, err)

	assert.Nil(t, updated.ParentID)
	assert.Equal(t, 1, updated.SortOrder, "appended after the existing root")
}

func TestService_UpdateNode_PublishSetsTimestamp(t *testing.T) {
	f := newFixture()
	f.addNode("ch-1", "", 0, node.NodeTypeChapter)

	published := true
	updated, err := f.service.UpdateNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1", node.UpdateNodeInput{
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	require.NotNil(t, updated.PublishedAt)

	unpublished := false
	updated, err = f.service.UpdateNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1", node.UpdateNodeInput{
		IsPublished: &unpublished,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
	assert.Nil(t, updated.PublishedAt)
}

// # Cascade Delete

/*
TestService_DeleteNode_CascadeIsComplete builds a deep chain with
contents and comments attached at every level, deletes the top of the
chain, and verifies nothing below survives.
*/
func TestService_DeleteNode_CascadeIsComplete(t *testing.T) {
	f := newFixture()
	f.addNode("keep", "", 0, node.NodeTypePart)

	const depth = 6
	parent := ""
	for level := 0; level < depth; level++ {
		id := fmt.Sprintf("chain-%d", level)
		f.addNode(id, parent, 1, node.NodeTypeSection)
		f.repo.contents[id] = 2
		f.repo.comments[id] = 3
		parent = id
	}

	err := f.service.DeleteNode(context.Background(), testAuthorID, sec.RoleAuthor, "chain-0")
	require.NoError(t, err)

	require.Len(t, f.repo.nodes, 1, "only the unrelated sibling survives")
	assert.Equal(t, "keep", f.repo.nodes[0].ID)
	assert.Empty(t, f.repo.contents, "contents fall with their nodes")
	assert.Empty(t, f.repo.comments, "comments fall with their nodes")
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestService_DeleteNode_SecondDeleteIs404(t *testing.T) {
	f := newFixture()
	f.addNode("ch-1", "", 0, node.NodeTypeChapter)

	require.NoError(t, f.service.DeleteNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1"))

	err := f.service.DeleteNode(context.Background(), testAuthorID, sec.RoleAuthor, "ch-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, 1, f.cache.invalidations, "failed delete has no side effects")
}

// # Directional Moves

func TestService_MoveNode_SwapsWithNeighbour(t *testing.T) {
	// [a:0, b:1, c:2] — moving b up swaps it with a.
	f := newFixture()
	f.addNode("a", "", 0, node.NodeTypeChapter)
	f.addNode("b", "", 1, node.NodeTypeChapter)
	f.addNode("c", "", 2, node.NodeTypeChapter)

	err := f.service.MoveNode(context.Background(), testAuthorID, sec.RoleAuthor, "b", hierarchy.DirectionUp)
	require.NoError(t, err)

	byID := make(map[string]int)
	for _, n := range f.repo.nodes {
		byID[n.ID] = n.SortOrder
	}
	assert.Equal(t, 0, byID["b"])
	assert.Equal(t, 1, byID["a"])
	assert.Equal(t, 2, byID["c"])
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestService_MoveNode_BoundaryIsNoOp(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		direction hierarchy.Direction
	}{
		{"first_up", "a", hierarchy.DirectionUp},
		{"last_down", "c", hierarchy.DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addNode("a", "", 0, node.NodeTypeChapter)
			f.addNode("b", "", 1, node.NodeTypeChapter)
			f.addNode("c", "", 2, node.NodeTypeChapter)

			err := f.service.MoveNode(context.Background(), testAuthorID, sec.RoleAuthor, tt.target, tt.direction)
			require.NoError(t, err)
			assert.Zero(t, f.repo.orderWrites, "boundary move must not write")
		})
	}
}

func TestService_MoveNode_UnknownDirection(t *testing.T) {
	f := newFixture()
	f.addNode("a", "", 0, node.NodeTypeChapter)

	err := f.service.MoveNode(context.Background(), testAuthorID, sec.RoleAuthor, "a", hierarchy.Direction("sideways"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Batch Reorder

func TestService_ReorderNodes_AppliesBatch(t *testing.T) {
	f := newFixture()
	f.addNode("a", "", 0, node.NodeTypeChapter)
	f.addNode("b", "", 1, node.NodeTypeChapter)
	f.addNode("c", "", 2, node.NodeTypeChapter)

	err := f.service.ReorderNodes(context.Background(), testAuthorID, sec.RoleAuthor, testBookID, nil, []hierarchy.OrderUpdate{
		{ID: "c", Order: 0},
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
	})
	require.NoError(t, err)

	byID := make(map[string]int)
	for _, n := range f.repo.nodes {
		byID[n.ID] = n.SortOrder
	}
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2}, byID)
}

func TestService_ReorderNodes_RejectsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name    string
		updates []hierarchy.OrderUpdate
	}{
		{"duplicate_orders", []hierarchy.OrderUpdate{{ID: "a", Order: 0}, {ID: "b", Order: 0}}},
		{"duplicate_ids", []hierarchy.OrderUpdate{{ID: "a", Order: 0}, {ID: "a", Order: 1}}},
		{"out_of_scope_id", []hierarchy.OrderUpdate{{ID: "a", Order: 0}, {ID: "ghost", Order: 1}}},
		{"negative_order", []hierarchy.OrderUpdate{{ID: "a", Order: -1}}},
		{"empty_batch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addNode("a", "", 0, node.NodeTypeChapter)
			f.addNode("b", "", 1, node.NodeTypeChapter)

			err := f.service.ReorderNodes(context.Background(), testAuthorID, sec.RoleAuthor, testBookID, nil, tt.updates)
			require.Error(t, err)
			assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
			assert.Zero(t, f.repo.orderWrites, "rejection must happen before any write")

			// Original orders untouched.
			for _, n := range f.repo.nodes {
				if n.ID == "a" {
					assert.Equal(t, 0, n.SortOrder)
				}
			}
		})
	}
}

/*
TestService_ReorderNodes_ScopeIsOneSiblingSet checks that a batch aimed
at the children of one parent may not touch nodes elsewhere in the
book, even though they share the book scope in storage.
*/
func TestService_ReorderNodes_ScopeIsOneSiblingSet(t *testing.T) {
	f := newFixture()
	f.addNode("part-1", "", 0, node.NodeTypePart)
	f.addNode("ch-1", "part-1", 0, node.NodeTypeChapter)
	f.addNode("ch-2", "part-1", 1, node.NodeTypeChapter)

	parentID := "part-1"
	err := f.service.ReorderNodes(context.Background(), testAuthorID, sec.RoleAuthor, testBookID, &parentID, []hierarchy.OrderUpdate{
		{ID: "ch-1", Order: 1},
		{ID: "part-1", Order: 0}, // root node, outside the sibling set
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}
