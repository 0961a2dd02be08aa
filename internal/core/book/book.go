// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package book defines the top-level publication entity of the Plume domain.

A book is the root of a writing project: it carries presentation metadata
(title, description, cover) and owns a hierarchy of nodes managed by the
node package. Books themselves form an ordered sibling set per author, so
the author's shelf can be rearranged like any other level of the hierarchy.
*/
package book

import (
	"time"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// Book represents a single writing project owned by an author.
type Book struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"` // URL-safe identifier derived from the title
	Description   *string    `json:"description,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	SortOrder     int        `json:"sort_order"`
	AuthorID      string     `json:"author_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// # Hierarchy Contract

// Books are a flat sibling set scoped by author: no parent.

// ItemID implements [hierarchy.Item].
func (b *Book) ItemID() string { return b.ID }

// ItemParentID implements [hierarchy.Item]. Books are always roots.
func (b *Book) ItemParentID() string { return "" }

// ItemOrder implements [hierarchy.Item].
func (b *Book) ItemOrder() int { return b.SortOrder }

var _ hierarchy.Item = (*Book)(nil)

// # Validation Bounds

const (
	// MaxTitleLength bounds book titles.
	MaxTitleLength = 255

	// MaxDescriptionLength bounds book descriptions.
	MaxDescriptionLength = 2000
)
