// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeapp/plume/internal/core/book"
	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/sec"
	"github.com/plumeapp/plume/pkg/hierarchy"
)

// fakeBookRepo is an in-memory [book.BookRepository].
type fakeBookRepo struct {
	books       []*book.Book
	orderWrites int
}

func (repo *fakeBookRepo) ListByAuthor(_ context.Context, authorID string) ([]*book.Book, error) {
	var out []*book.Book
	for _, b := range repo.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (repo *fakeBookRepo) FindByID(_ context.Context, id string) (*book.Book, error) {
	for _, b := range repo.books {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (repo *fakeBookRepo) Create(_ context.Context, b *book.Book) error {
	copied := *b
	repo.books = append(repo.books, &copied)
	return nil
}

func (repo *fakeBookRepo) Update(_ context.Context, b *book.Book) error {
	for i, existing := range repo.books {
		if existing.ID == b.ID {
			copied := *b
			repo.books[i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Book")
}

func (repo *fakeBookRepo) Delete(_ context.Context, id string) error {
	for i, existing := range repo.books {
		if existing.ID == id {
			repo.books = append(repo.books[:i], repo.books[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Book")
}

func (repo *fakeBookRepo) UpdateOrders(_ context.Context, authorID string, updates []hierarchy.OrderUpdate) error {
	targets := make(map[string]*book.Book, len(updates))
	for _, update := range updates {
		found := false
		for _, b := range repo.books {
			if b.ID == update.ID && b.AuthorID == authorID {
				targets[update.ID] = b
				found = true
				break
			}
		}
		if !found {
			return apperr.NotFound("Book")
		}
	}
	for _, update := range updates {
		targets[update.ID].SortOrder = update.Order
	}
	repo.orderWrites++
	return nil
}

const authorID = "author-1"

func seedShelf(repo *fakeBookRepo, titles ...string) {
	for i, title := range titles {
		repo.books = append(repo.books, &book.Book{
			ID:        title,
			Title:     title,
			Slug:      title,
			SortOrder: i,
			AuthorID:  authorID,
		})
	}
}

func TestService_CreateBook_AppendsToShelf(t *testing.T) {
	repo := &fakeBookRepo{}
	seedShelf(repo, "first", "second")
	service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	created, err := service.CreateBook(context.Background(), authorID, book.CreateBookInput{
		Title: "A Winter's Draft",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, created.SortOrder)
	assert.Equal(t, "a-winter-s-draft", created.Slug)
	assert.Equal(t, authorID, created.AuthorID)
}

func TestService_CreateBook_Rejections(t *testing.T) {
	longTitle := make([]byte, book.MaxTitleLength+1)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	tests := []struct {
		name  string
		title string
	}{
		{"empty_title", "   "},
		{"title_too_long", string(longTitle)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := book.NewService(&fakeBookRepo{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

			_, err := service.CreateBook(context.Background(), authorID, book.CreateBookInput{Title: tt.title})
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestService_UpdateBook_TitleChangeRegeneratesSlug(t *testing.T) {
	repo := &fakeBookRepo{}
	seedShelf(repo, "old-title")
	service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	title := "Brand New Title"
	updated, err := service.UpdateBook(context.Background(), authorID, sec.RoleAuthor, "old-title", book.UpdateBookInput{
		Title: &title,
	})
	require.NoError(t, err)

	assert.Equal(t, "Brand New Title", updated.Title)
	assert.Equal(t, "brand-new-title", updated.Slug)
}

func TestService_UpdateBook_OwnershipEnforced(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		role    sec.UserRole
		wantErr bool
	}{
		{"owner_may_edit", authorID, sec.RoleAuthor, false},
		{"moderator_may_edit", "mod-1", sec.RoleModerator, false},
		{"admin_may_edit", "admin-1", sec.RoleAdmin, false},
		{"stranger_forbidden", "stranger-1", sec.RoleAuthor, true},
		{"member_forbidden", "member-1", sec.RoleMember, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeBookRepo{}
			seedShelf(repo, "the-book")
			service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

			desc := "updated"
			_, err := service.UpdateBook(context.Background(), tt.actorID, tt.role, "the-book", book.UpdateBookInput{
				Description: &desc,
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_DeleteBook(t *testing.T) {
	repo := &fakeBookRepo{}
	seedShelf(repo, "doomed")
	service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, service.DeleteBook(context.Background(), authorID, sec.RoleAuthor, "doomed"))
	assert.Empty(t, repo.books)

	err := service.DeleteBook(context.Background(), authorID, sec.RoleAuthor, "doomed")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_MoveBook(t *testing.T) {
	t.Run("swap_down", func(t *testing.T) {
		repo := &fakeBookRepo{}
		seedShelf(repo, "a", "b", "c")
		service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		err := service.MoveBook(context.Background(), authorID, sec.RoleAuthor, "a", hierarchy.DirectionDown)
		require.NoError(t, err)

		byID := make(map[string]int)
		for _, b := range repo.books {
			byID[b.ID] = b.SortOrder
		}
		assert.Equal(t, map[string]int{"b": 0, "a": 1, "c": 2}, byID)
	})

	t.Run("boundary_no_op", func(t *testing.T) {
		repo := &fakeBookRepo{}
		seedShelf(repo, "a", "b")
		service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		err := service.MoveBook(context.Background(), authorID, sec.RoleAuthor, "b", hierarchy.DirectionDown)
		require.NoError(t, err)
		assert.Zero(t, repo.orderWrites)
	})

	t.Run("unknown_direction", func(t *testing.T) {
		repo := &fakeBookRepo{}
		seedShelf(repo, "a")
		service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		err := service.MoveBook(context.Background(), authorID, sec.RoleAuthor, "a", hierarchy.Direction("diagonal"))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

func TestService_ReorderBooks(t *testing.T) {
	t.Run("applies_batch", func(t *testing.T) {
		repo := &fakeBookRepo{}
		seedShelf(repo, "a", "b")
		service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		err := service.ReorderBooks(context.Background(), authorID, []hierarchy.OrderUpdate{
			{ID: "b", Order: 0},
			{ID: "a", Order: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.orderWrites)
	})

	t.Run("foreign_book_rejected_before_write", func(t *testing.T) {
		repo := &fakeBookRepo{}
		seedShelf(repo, "a")
		repo.books = append(repo.books, &book.Book{ID: "theirs", AuthorID: "author-2"})
		service := book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

		err := service.ReorderBooks(context.Background(), authorID, []hierarchy.OrderUpdate{
			{ID: "a", Order: 0},
			{ID: "theirs", Order: 1},
		})
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
		assert.Zero(t, repo.orderWrites)
	})
}
