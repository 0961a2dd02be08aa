// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package node manages the hierarchical structure of a book.

A book node is one structural element of a book: a part, chapter,
section, subsection, or article. Nodes form a tree via parent pointers
and carry an integer sort order among their siblings, so the full
manuscript outline is reconstructed by the hierarchy package from a
single flat read.

Core Responsibility:

  - Structure: Create, retitle, retype, and reparent outline elements.
  - Ordering: Directional sibling swaps and atomic batch reorders.
  - Lifecycle: Publishing flags and cascading subtree deletion.

The built tree of a book is cached in Redis and invalidated on every
structural mutation.
*/
package node

import (
	"time"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Domain Enums

// NodeType classifies the structural role of a node in the outline.
type NodeType string

const (
	// NodeTypeBook is the synthetic root element of an outline.
	NodeTypeBook NodeType = "BOOK"

	// NodeTypePart groups chapters into a major division.
	NodeTypePart NodeType = "PART"

	// NodeTypeChapter is the primary unit of writing.
	NodeTypeChapter NodeType = "CHAPTER"

	// NodeTypeSection subdivides a chapter.
	NodeTypeSection NodeType = "SECTION"

	// NodeTypeSubsection subdivides a section.
	NodeTypeSubsection NodeType = "SUBSECTION"

	// NodeTypeArticle is a standalone leaf document.
	NodeTypeArticle NodeType = "ARTICLE"
)

// IsValid reports whether t is a recognised [NodeType] value.
func (t NodeType) IsValid() bool {
	switch t {
	case
		NodeTypeBook,
		NodeTypePart,
		NodeTypeChapter,
		NodeTypeSection,
		NodeTypeSubsection,
		NodeTypeArticle:
		return true
	}
	return false
}

// # Core Entity

// BookNode is one structural element of a book's outline.
type BookNode struct {
	ID          string     `json:"id"`
	BookID      string     `json:"book_id"`
	ParentID    *string    `json:"parent_id,omitempty"` // nil ⇒ root of the book
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	NodeType    NodeType   `json:"node_type"`
	SortOrder   int        `json:"sort_order"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// # Hierarchy Contract

// ItemID implements [hierarchy.Item].
func (n *BookNode) ItemID() string { return n.ID }

// ItemParentID implements [hierarchy.Item].
func (n *BookNode) ItemParentID() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// ItemOrder implements [hierarchy.Item].
func (n *BookNode) ItemOrder() int { return n.SortOrder }

var _ hierarchy.Item = (*BookNode)(nil)

// # Validation Bounds

const (
	// MaxTitleLength bounds node titles.
	MaxTitleLength = 255

	// MaxDescriptionLength bounds node descriptions.
	MaxDescriptionLength = 2000
)
