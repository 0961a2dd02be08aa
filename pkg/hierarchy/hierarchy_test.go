// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package hierarchy_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// flatItem is a minimal ordered hierarchy item for testing.
type flatItem struct {
	id     string
	parent string
	order  int
}

func (f flatItem) ItemID() string       { return f.id }
func (f flatItem) ItemParentID() string { return f.parent }
func (f flatItem) ItemOrder() int       { return f.order }

func titles(nodes []*hierarchy.Node[flatItem]) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Item.id
	}
	return ids
}

/*
TestBuildTree_Basic checks nesting and sibling sorting: one root "Part I"
with children "Ch.1" and "Ch.2" in order.
*/
func TestBuildTree_Basic(t *testing.T) {
	items := []flatItem{
		{id: "1", parent: "", order: 0},
		{id: "2", parent: "1", order: 0},
		{id: "3", parent: "1", order: 1},
	}

	roots := hierarchy.BuildTree(items)

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].Item.id)
	assert.Equal(t, []string{"2", "3"}, titles(roots[0].Children))
}

/*
TestBuildTree_SiblingSort verifies siblings are ordered by their order
value regardless of input position.
*/
func TestBuildTree_SiblingSort(t *testing.T) {
	items := []flatItem{
		{id: "c", parent: "", order: 2},
		{id: "a", parent: "", order: 0},
		{id: "b", parent: "", order: 1},
	}

	roots := hierarchy.BuildTree(items)

	assert.Equal(t, []string{"a", "b", "c"}, titles(roots))
}

/*
TestBuildTree_StableTies: items sharing an order value keep input order.
*/
func TestBuildTree_StableTies(t *testing.T) {
	items := []flatItem{
		{id: "first", parent: "", order: 5},
		{id: "second", parent: "", order: 5},
		{id: "third", parent: "", order: 5},
	}

	roots := hierarchy.BuildTree(items)

	assert.Equal(t, []string{"first", "second", "third"}, titles(roots))
}

/*
TestBuildTree_DanglingParent: an item referencing a missing parent is
attached to the root level, not dropped.
*/
func TestBuildTree_DanglingParent(t *testing.T) {
	items := []flatItem{
		{id: "a", parent: "", order: 0},
		{id: "orphan", parent: "ghost", order: 1},
	}

	roots := hierarchy.BuildTree(items)

	assert.Equal(t, []string{"a", "orphan"}, titles(roots))
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Empty(t, hierarchy.BuildTree([]flatItem{}))
}

/*
TestBuildTree_RoundTrip: flattening a built tree and rebuilding yields the
same structure, for a multi-level forest.
*/
func TestBuildTree_RoundTrip(t *testing.T) {
	items := []flatItem{
		{id: "p2", parent: "", order: 1},
		{id: "p1", parent: "", order: 0},
		{id: "c1", parent: "p1", order: 0},
		{id: "c2", parent: "p1", order: 1},
		{id: "s1", parent: "c2", order: 0},
		{id: "c3", parent: "p2", order: 0},
	}

	first := hierarchy.BuildTree(items)
	flat := hierarchy.Flatten(first)
	second := hierarchy.BuildTree(flat)

	assert.Equal(t, first, second)
}

/*
TestFlatten_DepthFirst: parents come before their children and siblings
appear in display order.
*/
func TestFlatten_DepthFirst(t *testing.T) {
	items := []flatItem{
		{id: "root", parent: "", order: 0},
		{id: "a", parent: "root", order: 0},
		{id: "a1", parent: "a", order: 0},
		{id: "b", parent: "root", order: 1},
	}

	flat := hierarchy.Flatten(hierarchy.BuildTree(items))

	ids := make([]string, len(flat))
	for i, item := range flat {
		ids[i] = item.id
	}
	assert.Equal(t, []string{"root", "a", "a1", "b"}, ids)
}

/*
TestSubtree_Worklist collects an item and all transitive descendants.
Deleting node "1" of the Part I example must target nodes 1, 2, and 3.
*/
func TestSubtree_Worklist(t *testing.T) {
	items := []flatItem{
		{id: "1", parent: "", order: 0},
		{id: "2", parent: "1", order: 0},
		{id: "3", parent: "1", order: 1},
		{id: "4", parent: "3", order: 0},
		{id: "unrelated", parent: "", order: 1},
	}

	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, hierarchy.Subtree(items, "1"))
	assert.Equal(t, []string{"4"}, hierarchy.Subtree(items, "4"))
	assert.Empty(t, hierarchy.Subtree(items, "missing"))
}

/*
TestSubtree_DeepChain guards against stack overflow on pathological depth.
*/
func TestSubtree_DeepChain(t *testing.T) {
	const depth = 100_000

	items := make([]flatItem, depth)
	items[0] = flatItem{id: "n0"}
	for i := 1; i < depth; i++ {
		items[i] = flatItem{id: "n" + strconv.Itoa(i), parent: "n" + strconv.Itoa(i-1)}
	}

	assert.Len(t, hierarchy.Subtree(items, "n0"), depth)
}

/*
TestIsDescendant drives the reparenting cycle check.
*/
func TestIsDescendant(t *testing.T) {
	items := []flatItem{
		{id: "root", parent: ""},
		{id: "mid", parent: "root"},
		{id: "leaf", parent: "mid"},
		{id: "other", parent: ""},
	}

	tests := []struct {
		name      string
		root      string
		candidate string
		want      bool
	}{
		{"self", "mid", "mid", true},
		{"direct_child", "mid", "leaf", true},
		{"transitive", "root", "leaf", true},
		{"sibling_tree", "mid", "other", false},
		{"ancestor_is_not_descendant", "leaf", "root", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hierarchy.IsDescendant(items, tt.root, tt.candidate))
		})
	}
}
