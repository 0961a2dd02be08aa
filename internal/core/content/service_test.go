// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package content_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/internal/core/content"
	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// fakeContentRepo is an in-memory [content.ContentRepository].
type fakeContentRepo struct {
	blocks      []*content.NodeContent
	nodeOwners  map[string]string
	orderWrites int
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{nodeOwners: make(map[string]string)}
}

func (repo *fakeContentRepo) ListByNode(_ context.Context, nodeID string) ([]*content.NodeContent, error) {
	var out []*content.NodeContent
	for _, block := range repo.blocks {
		if block.NodeID == nodeID {
			out = append(out, block)
		}
	}
	return out, nil
}

func (repo *fakeContentRepo) FindByID(_ context.Context, id string) (*content.NodeContent, error) {
	for _, block := range repo.blocks {
		if block.ID == id {
			copied := *block
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Content")
}

func (repo *fakeContentRepo) Create(_ context.Context, block *content.NodeContent) error {
	copied := *block
	repo.blocks = append(repo.blocks, &copied)
	return nil
}

func (repo *fakeContentRepo) Update(_ context.Context, block *content.NodeContent) error {
	for i, existing := range repo.blocks {
		if existing.ID == block.ID {
			copied := *block
			repo.blocks[i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Content")
}

func (repo *fakeContentRepo) Delete(_ context.Context, id string) error {
	for i, existing := range repo.blocks {
		if existing.ID == id {
			repo.blocks = append(repo.blocks[:i], repo.blocks[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Content")
}

func (repo *fakeContentRepo) UpdateOrders(_ context.Context, nodeID string, updates []hierarchy.OrderUpdate) error {
	targets := make(map[string]*content.NodeContent, len(updates))
	for _, update := range updates {
		found := false
		for _, block := range repo.blocks {
			if block.ID == update.ID && block.NodeID == nodeID {
				targets[update.ID] = block
				found = true
				break
			}
		}
		if !found {
			return apperr.NotFound("Content")
		}
	}
	for _, update := range updates {
		targets[update.ID].SortOrder = update.Order
	}
	repo.orderWrites++
	return nil
}

func (repo *fakeContentRepo) FindNodeOwner(_ context.Context, nodeID string) (string, error) {
	owner, ok := repo.nodeOwners[nodeID]
	if !ok {
		return "", apperr.NotFound("Node")
	}
	return owner, nil
}

const (
	nodeID   = "node-1"
	authorID = "author-1"
)

func newService(repo *fakeContentRepo) *content.Service {
	repo.nodeOwners[nodeID] = authorID
	return content.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedBlocks(repo *fakeContentRepo, ids ...string) {
	for i, id := range ids {
		repo.blocks = append(repo.blocks, &content.NodeContent{
			ID:          id,
			NodeID:      nodeID,
			ContentType: content.ContentTypeText,
			Content:     "lorem",
			SortOrder:   i,
		})
	}
}

func TestService_CreateContent_AppendsToSequence(t *testing.T) {
	repo := newFakeContentRepo()
	seedBlocks(repo, "intro", "body")
	service := newService(repo)

	created, err := service.CreateContent(context.Background(), authorID, sec.RoleAuthor, nodeID, content.CreateContentInput{
		ContentType: content.ContentTypeCode,
		Content:     "package main",
		Metadata:    map[string]any{"language": "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, created.SortOrder)
	assert.Equal(t, content.ContentTypeCode, created.ContentType)
	assert.Equal(t, "go", created.Metadata["language"])
}

func TestService_CreateContent_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		actorID  string
		role     sec.UserRole
		input    content.CreateContentInput
		wantCode string
	}{
		{
			name:     "stranger_forbidden",
			actorID:  "stranger-1",
			role:     sec.RoleAuthor,
			input:    content.CreateContentInput{ContentType: content.ContentTypeText, Content: "x"},
			wantCode: "FORBIDDEN",
		},
		{
			name:     "unknown_content_type",
			actorID:  authorID,
			role:     sec.RoleAuthor,
			input:    content.CreateContentInput{ContentType: content.ContentType("HOLOGRAM"), Content: "x"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "empty_content",
			actorID:  authorID,
			role:     sec.RoleAuthor,
			input:    content.CreateContentInput{ContentType: content.ContentTypeText, Content: "   "},
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeContentRepo())

			_, err := service.CreateContent(context.Background(), tt.actorID, tt.role, nodeID, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.As(err).Code)
		})
	}
}

func TestService_UpdateContent_ReplacesMetadataOnlyWhenSet(t *testing.T) {
	repo := newFakeContentRepo()
	repo.blocks = append(repo.blocks, &content.NodeContent{
		ID:          "block-1",
		NodeID:      nodeID,
		ContentType: content.ContentTypeCode,
		Content:     "package main",
		Metadata:    map[string]any{"language": "go"},
	})
	service := newService(repo)

	body := "package main\n\nfunc main() {}"
	updated, err := service.UpdateContent(context.Background(), authorID, sec.RoleAuthor, "block-1", content.UpdateContentInput{
		Content: &body,
	})
	require.NoError(t, err)
	assert.Equal(t, "go", updated.Metadata["language"], "untouched metadata survives a partial update")

	updated, err = service.UpdateContent(context.Background(), authorID, sec.RoleAuthor, "block-1", content.UpdateContentInput{
		Metadata:    nil,
		SetMetadata: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Metadata, "SetMetadata clears when the replacement is nil")
}

func TestService_DeleteContent_SecondDeleteIs404(t *testing.T) {
	repo := newFakeContentRepo()
	seedBlocks(repo, "block-1")
	service := newService(repo)

	require.NoError(t, service.DeleteContent(context.Background(), authorID, sec.RoleAuthor, "block-1"))

	err := service.DeleteContent(context.Background(), authorID, sec.RoleAuthor, "block-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_ReorderContents(t *testing.T) {
	t.Run("applies_batch", func(t *testing.T) {
		repo := newFakeContentRepo()
		seedBlocks(repo, "a", "b", "c")
		service := newService(repo)

		err := service.ReorderContents(context.Background(), authorID, sec.RoleAuthor, nodeID, []hierarchy.OrderUpdate{
			{ID: "c", Order: 0},
			{ID: "b", Order: 1},
			{ID: "a", Order: 2},
		})
		require.NoError(t, err)

		byID := make(map[string]int)
		for _, block := range repo.blocks {
			byID[block.ID] = block.SortOrder
		}
		assert.Equal(t, map[string]int{"c": 0, "b": 1, "a": 2}, byID)
	})

	t.Run("duplicate_order_rejected_before_write", func(t *testing.T) {
		repo := newFakeContentRepo()
		seedBlocks(repo, "a", "b")
		service := newService(repo)

		err := service.ReorderContents(context.Background(), authorID, sec.RoleAuthor, nodeID, []hierarchy.OrderUpdate{
			{ID: "a", Order: 0},
			{ID: "b", Order: 0},
		})
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
		assert.Zero(t, repo.orderWrites)
	})

	t.Run("foreign_block_rejected", func(t *testing.T) {
		repo := newFakeContentRepo()
		seedBlocks(repo, "a")
		repo.blocks = append(repo.blocks, &content.NodeContent{ID: "elsewhere", NodeID: "node-2"})
		service := newService(repo)

		err := service.ReorderContents(context.Background(), authorID, sec.RoleAuthor, nodeID, []hierarchy.OrderUpdate{
			{ID: "a", Order: 0},
			{ID: "elsewhere", Order: 1},
		})
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})
}
