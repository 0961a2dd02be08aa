// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/internal/core/comment"
	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
)

// fakeCommentRepo is an in-memory [comment.CommentRepository] keeping
// comments in insertion order; ListByNode serves pages newest first.
type fakeCommentRepo struct {
	comments []*comment.Comment
}

func (repo *fakeCommentRepo) ListByNode(_ context.Context, nodeID string, limit, offset int) ([]*comment.Comment, int, error) {
	var matched []*comment.Comment
	for i := len(repo.comments) - 1; i >= 0; i-- {
		if repo.comments[i].NodeID == nodeID {
			matched = append(matched, repo.comments[i])
		}
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *fakeCommentRepo) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	for _, c := range repo.comments {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Comment")
}

func (repo *fakeCommentRepo) Create(_ context.Context, c *comment.Comment) error {
	copied := *c
	repo.comments = append(repo.comments, &copied)
	return nil
}

func (repo *fakeCommentRepo) Update(_ context.Context, c *comment.Comment) error {
	for i, existing := range repo.comments {
		if existing.ID == c.ID {
			copied := *c
			repo.comments[i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Comment")
}

func (repo *fakeCommentRepo) Delete(_ context.Context, id string) error {
	for i, existing := range repo.comments {
		if existing.ID == id {
			repo.comments = append(repo.comments[:i], repo.comments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Comment")
}

func TestService_CreateComment(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"valid", "Loved this chapter", ""},
		{"empty_body", "   ", "VALIDATION_ERROR"},
		{"body_too_long", strings.Repeat("a", comment.MaxContentLength+1), "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := comment.NewService(&fakeCommentRepo{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

			created, err := service.CreateComment(context.Background(), "reader-1", "node-1", tt.body)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.As(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "reader-1", created.AuthorID)
			assert.False(t, created.IsEdited)
		})
	}
}

func TestService_UpdateComment_AuthorOnly(t *testing.T) {
	repo := &fakeCommentRepo{}
	repo.comments = append(repo.comments, &comment.Comment{
		ID:       "comment-1",
		NodeID:   "node-1",
		AuthorID: "reader-1",
		Content:  "first thoughts",
	})
	service := comment.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.UpdateComment(context.Background(), "someone-else", "comment-1", "hijacked")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.UpdateComment(context.Background(), "reader-1", "comment-1", "second thoughts")
	require.NoError(t, err)
	assert.Equal(t, "second thoughts", updated.Content)
	assert.True(t, updated.IsEdited, "an edit marks the comment permanently")
}

func TestService_DeleteComment_AuthorOrModerator(t *testing.T) {
	tests := []struct {
		name     string
		actorID  string
		role     sec.UserRole
		wantCode string
	}{
		{"author_may_delete", "reader-1", sec.RoleMember, ""},
		{"moderator_may_delete", "mod-1", sec.RoleModerator, ""},
		{"other_member_forbidden", "reader-2", sec.RoleMember, "FORBIDDEN"},
		{"other_author_forbidden", "writer-1", sec.RoleAuthor, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCommentRepo{}
			repo.comments = append(repo.comments, &comment.Comment{
				ID:       "comment-1",
				NodeID:   "node-1",
				AuthorID: "reader-1",
			})
			service := comment.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

			err := service.DeleteComment(context.Background(), tt.actorID, tt.role, "comment-1")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.As(err).Code)
				assert.Len(t, repo.comments, 1)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, repo.comments)
		})
	}
}

func TestService_ListComments_PagesNewestFirst(t *testing.T) {
	repo := &fakeCommentRepo{}
	for _, id := range []string{"oldest", "middle", "newest"} {
		repo.comments = append(repo.comments, &comment.Comment{
			ID:     id,
			NodeID: "node-1",
		})
	}
	service := comment.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	page, total, err := service.ListComments(context.Background(), "node-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "newest", page[0].ID)
	assert.Equal(t, "middle", page[1].ID)

	page, total, err = service.ListComments(context.Background(), "node-1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "oldest", page[0].ID)
}
