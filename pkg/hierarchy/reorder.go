// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package hierarchy

import (
	"errors"
	"fmt"
)

// Direction is the orientation of a single-step sibling move.
type Direction string

const (
	// DirectionUp swaps the target with the sibling immediately before it.
	DirectionUp Direction = "up"

	// DirectionDown swaps the target with the sibling immediately after it.
	DirectionDown Direction = "down"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// OrderUpdate is one {id, order} write produced by a reorder computation.
// A reorder is persisted by applying all its updates in a single transaction.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

var (
	// ErrUnknownItem is returned when a target id is not in the sibling set.
	ErrUnknownItem = errors.New("hierarchy: item not found in sibling set")

	// ErrUnknownDirection is returned for a direction other than up/down.
	ErrUnknownDirection = errors.New("hierarchy: unknown move direction")
)

// Move computes the order swap for moving targetID one step in the given
// direction within its sibling set.
//
// The sibling slice must contain every item sharing the target's parent.
// Moving the first sibling up (or the last down) is a no-op and yields an
// empty update set, not an error. Otherwise it yields exactly two updates:
// the target and its neighbour exchange order values.
func Move[T Item](siblings []T, targetID string, direction Direction) ([]OrderUpdate, error) {
	if !direction.Valid() {
		return nil, ErrUnknownDirection
	}

	sorted := SortSiblings(siblings)

	index := -1
	for i, item := range sorted {
		if item.ItemID() == targetID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrUnknownItem
	}

	neighbour := index - 1
	if direction == DirectionDown {
		neighbour = index + 1
	}

	// Boundary: nothing to swap with.
	if neighbour < 0 || neighbour >= len(sorted) {
		return nil, nil
	}

	return []OrderUpdate{
		{ID: sorted[index].ItemID(), Order: sorted[neighbour].ItemOrder()},
		{ID: sorted[neighbour].ItemID(), Order: sorted[index].ItemOrder()},
	}, nil
}

// Renumber assigns dense orders 0..n-1 to the given sibling sequence,
// preserving its current sorted order. The result is the canonical batch
// for "insert at position" style moves.
func Renumber[T Item](siblings []T) []OrderUpdate {
	sorted := SortSiblings(siblings)
	updates := make([]OrderUpdate, len(sorted))
	for i, item := range sorted {
		updates[i] = OrderUpdate{ID: item.ItemID(), Order: i}
	}
	return updates
}

// ValidateBatch checks a batch reorder before any write happens.
//
// It rejects empty batches, negative orders, duplicate ids, duplicate order
// values, and ids that are not part of the sibling scope. The scope is the
// id set of the sibling items the batch may touch; callers build it from a
// fresh read of the target parent's children.
func ValidateBatch[T Item](siblings []T, updates []OrderUpdate) error {
	if len(updates) == 0 {
		return errors.New("hierarchy: empty reorder batch")
	}

	scope := make(map[string]bool, len(siblings))
	for _, item := range siblings {
		scope[item.ItemID()] = true
	}

	seenIDs := make(map[string]bool, len(updates))
	seenOrders := make(map[int]bool, len(updates))

	for _, update := range updates {
		if update.Order < 0 {
			return fmt.Errorf("hierarchy: negative order %d for item %s", update.Order, update.ID)
		}
		if !scope[update.ID] {
			return fmt.Errorf("hierarchy: item %s is outside the reorder scope: %w", update.ID, ErrUnknownItem)
		}
		if seenIDs[update.ID] {
			return fmt.Errorf("hierarchy: duplicate item %s in reorder batch", update.ID)
		}
		if seenOrders[update.Order] {
			return fmt.Errorf("hierarchy: duplicate order value %d in reorder batch", update.Order)
		}
		seenIDs[update.ID] = true
		seenOrders[update.Order] = true
	}

	return nil
}
