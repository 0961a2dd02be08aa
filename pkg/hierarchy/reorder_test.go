// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

/*
TestMove_SwapUp: moving B up in [A:0, B:1, C:2] swaps A and B and leaves C
untouched.
*/
func TestMove_SwapUp(t *testing.T) {
	siblings := []flatItem{
		{id: "A", order: 0},
		{id: "B", order: 1},
		{id: "C", order: 2},
	}

	updates, err := hierarchy.Move(siblings, "B", hierarchy.DirectionUp)

	require.NoError(t, err)
	assert.ElementsMatch(t, []hierarchy.OrderUpdate{
		{ID: "B", Order: 0},
		{ID: "A", Order: 1},
	}, updates)
}

func TestMove_SwapDown(t *testing.T) {
	siblings := []flatItem{
		{id: "A", order: 0},
		{id: "B", order: 1},
		{id: "C", order: 2},
	}

	updates, err := hierarchy.Move(siblings, "B", hierarchy.DirectionDown)

	require.NoError(t, err)
	assert.ElementsMatch(t, []hierarchy.OrderUpdate{
		{ID: "B", Order: 2},
		{ID: "C", Order: 1},
	}, updates)
}

/*
TestMove_Boundaries: first sibling up and last sibling down are no-ops,
reported as empty update sets rather than errors.
*/
func TestMove_Boundaries(t *testing.T) {
	siblings := []flatItem{
		{id: "A", order: 0},
		{id: "B", order: 1},
	}

	tests := []struct {
		name      string
		target    string
		direction hierarchy.Direction
	}{
		{"first_up", "A", hierarchy.DirectionUp},
		{"last_down", "B", hierarchy.DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updates, err := hierarchy.Move(siblings, tt.target, tt.direction)
			require.NoError(t, err)
			assert.Empty(t, updates)
		})
	}
}

func TestMove_SingleSibling(t *testing.T) {
	updates, err := hierarchy.Move([]flatItem{{id: "only", order: 0}}, "only", hierarchy.DirectionUp)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestMove_UnknownTarget(t *testing.T) {
	_, err := hierarchy.Move([]flatItem{{id: "A", order: 0}}, "ghost", hierarchy.DirectionUp)
	assert.ErrorIs(t, err, hierarchy.ErrUnknownItem)
}

func TestMove_UnknownDirection(t *testing.T) {
	_, err := hierarchy.Move([]flatItem{{id: "A", order: 0}}, "A", hierarchy.Direction("sideways"))
	assert.ErrorIs(t, err, hierarchy.ErrUnknownDirection)
}

/*
TestMove_SparseOrders: swaps exchange the existing order values exactly,
without renumbering non-contiguous sequences.
*/
func TestMove_SparseOrders(t *testing.T) {
	siblings := []flatItem{
		{id: "A", order: 3},
		{id: "B", order: 10},
	}

	updates, err := hierarchy.Move(siblings, "B", hierarchy.DirectionUp)

	require.NoError(t, err)
	assert.ElementsMatch(t, []hierarchy.OrderUpdate{
		{ID: "B", Order: 3},
		{ID: "A", Order: 10},
	}, updates)
}

/*
TestRenumber assigns dense 0..n-1 orders preserving display order.
*/
func TestRenumber(t *testing.T) {
	siblings := []flatItem{
		{id: "C", order: 9},
		{id: "A", order: 2},
		{id: "B", order: 5},
	}

	assert.Equal(t, []hierarchy.OrderUpdate{
		{ID: "A", Order: 0},
		{ID: "B", Order: 1},
		{ID: "C", Order: 2},
	}, hierarchy.Renumber(siblings))
}

/*
TestValidateBatch covers the pre-write checks: duplicate orders, duplicate
ids, out-of-scope ids, negative orders, and empty batches must all be
rejected before any persistence happens.
*/
func TestValidateBatch(t *testing.T) {
	siblings := []flatItem{
		{id: "A", order: 0},
		{id: "B", order: 1},
		{id: "C", order: 2},
	}

	tests := []struct {
		name    string
		updates []hierarchy.OrderUpdate
		wantErr bool
	}{
		{
			name: "valid_full_batch",
			updates: []hierarchy.OrderUpdate{
				{ID: "A", Order: 2}, {ID: "B", Order: 0}, {ID: "C", Order: 1},
			},
		},
		{
			name:    "valid_partial_batch",
			updates: []hierarchy.OrderUpdate{{ID: "A", Order: 7}},
		},
		{
			name: "duplicate_order_values",
			updates: []hierarchy.OrderUpdate{
				{ID: "A", Order: 1}, {ID: "B", Order: 1},
			},
			wantErr: true,
		},
		{
			name: "duplicate_ids",
			updates: []hierarchy.OrderUpdate{
				{ID: "A", Order: 0}, {ID: "A", Order: 1},
			},
			wantErr: true,
		},
		{
			name:    "out_of_scope_id",
			updates: []hierarchy.OrderUpdate{{ID: "Z", Order: 0}},
			wantErr: true,
		},
		{
			name:    "negative_order",
			updates: []hierarchy.OrderUpdate{{ID: "A", Order: -1}},
			wantErr: true,
		},
		{
			name:    "empty_batch",
			updates: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hierarchy.ValidateBatch(siblings, tt.updates)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
