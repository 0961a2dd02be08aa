// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package hierarchy implements the ordered-hierarchy model shared by books,
book nodes, and content blocks.

Every entity managed by Plume is an "ordered hierarchy item": it has an
identifier, an optional parent identifier, and an integer order among its
siblings. This package provides the pure, storage-agnostic operations on
that shape:

  - BuildTree: flat parent-pointer list → nested tree, siblings sorted by order.
  - Flatten: nested tree → flat list (depth-first, parents before children).
  - Move: directional sibling reorder (swap with the adjacent sibling).
  - ValidateBatch: pre-flight checks for atomic batch reorders.
  - Subtree: iterative work-list collection of an item and all descendants.

Functions here never touch the database. Callers load a fresh flat list,
compute, and persist the resulting order updates transactionally.
*/
package hierarchy

import "sort"

// Item is the contract every ordered hierarchy entity satisfies.
type Item interface {
	// ItemID returns the unique identifier.
	ItemID() string

	// ItemParentID returns the parent identifier, or "" for a root item.
	ItemParentID() string

	// ItemOrder returns the position among siblings sharing the same parent.
	ItemOrder() int
}

// Node wraps an item with its resolved children, sorted by order.
type Node[T Item] struct {
	Item     T          `json:"item"`
	Children []*Node[T] `json:"children"`
}

// BuildTree converts a flat list of items into a forest of [Node] trees.
//
// Items whose parent is "" become roots. Items referencing a parent that is
// not present in the input are attached to the root level rather than
// dropped, so a partially-loaded list still renders.
//
// Sibling sorting is stable: items sharing the same order value keep their
// input order. The input slice is not modified.
func BuildTree[T Item](items []T) []*Node[T] {
	nodeByID := make(map[string]*Node[T], len(items))
	for _, item := range items {
		nodeByID[item.ItemID()] = &Node[T]{Item: item}
	}

	var roots []*Node[T]
	for _, item := range items {
		node := nodeByID[item.ItemID()]

		parentID := item.ItemParentID()
		if parentID == "" {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodeByID[parentID]
		if !ok || parentID == item.ItemID() {
			// Dangling (or self-referencing) parent: keep the item visible.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortForest(roots)
	return roots
}

// Flatten converts a forest back into a flat list, depth-first with parents
// emitted before their children. It is the inverse of [BuildTree] for any
// forest with valid parent references.
func Flatten[T Item](roots []*Node[T]) []T {
	var flat []T

	// Explicit stack instead of recursion; tree depth is caller-controlled.
	stack := make([]*Node[T], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		flat = append(flat, node.Item)

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return flat
}

// SortSiblings returns a copy of items stably sorted ascending by order.
func SortSiblings[T Item](items []T) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ItemOrder() < sorted[j].ItemOrder()
	})
	return sorted
}

// sortForest sorts every sibling set in the forest, iteratively.
func sortForest[T Item](roots []*Node[T]) {
	pending := [][]*Node[T]{roots}
	for len(pending) > 0 {
		siblings := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Item.ItemOrder() < siblings[j].Item.ItemOrder()
		})

		for _, node := range siblings {
			if len(node.Children) > 0 {
				pending = append(pending, node.Children)
			}
		}
	}
}
