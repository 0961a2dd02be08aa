// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package content manages the ordered content blocks attached to book nodes.

A content block is one unit of rendered material inside a node: a text
passage, code listing, image, table, exercise, and so on. Blocks form a
flat ordered sequence per node and carry a free-form JSON metadata object
whose shape depends on the block type (language for code, caption for
images, headers and rows for tables, ...).
*/
package content

import (
	"time"

	"github.com/plumeapp/plume/pkg/hierarchy"
)

// # Domain Enums

// ContentType classifies the rendering kind of a content block.
type ContentType string

const (
	ContentTypeText     ContentType = "TEXT"
	ContentTypeImage    ContentType = "IMAGE"
	ContentTypeVideo    ContentType = "VIDEO"
	ContentTypeAudio    ContentType = "AUDIO"
	ContentTypeCode     ContentType = "CODE"
	ContentTypeQuote    ContentType = "QUOTE"
	ContentTypeWarning  ContentType = "WARNING"
	ContentTypeInfo     ContentType = "INFO"
	ContentTypeTip      ContentType = "TIP"
	ContentTypeQuestion ContentType = "QUESTION"
	ContentTypeExercise ContentType = "EXERCISE"
	ContentTypeSolution ContentType = "SOLUTION"
	ContentTypeTable    ContentType = "TABLE"
	ContentTypeList     ContentType = "LIST"
)

// IsValid reports whether t is a recognised [ContentType] value.
func (t ContentType) IsValid() bool {
	switch t {
	case
		ContentTypeText,
		ContentTypeImage,
		ContentTypeVideo,
		ContentTypeAudio,
		ContentTypeCode,
		ContentTypeQuote,
		ContentTypeWarning,
		ContentTypeInfo,
		ContentTypeTip,
		ContentTypeQuestion,
		ContentTypeExercise,
		ContentTypeSolution,
		ContentTypeTable,
		ContentTypeList:
		return true
	}
	return false
}

// # Core Entity

// NodeContent is one ordered content block attached to a node.
type NodeContent struct {
	ID          string         `json:"id"`
	NodeID      string         `json:"node_id"`
	ContentType ContentType    `json:"content_type"`
	Content     string         `json:"content"`
	Metadata    map[string]any `json:"metadata,omitempty"` // Type-dependent: language, caption, headers/rows, difficulty, ...
	SortOrder   int            `json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// # Hierarchy Contract

// Content blocks are a flat sibling set scoped by node: no parent.

// ItemID implements [hierarchy.Item].
func (c *NodeContent) ItemID() string { return c.ID }

// ItemParentID implements [hierarchy.Item]. Blocks are always roots.
func (c *NodeContent) ItemParentID() string { return "" }

// ItemOrder implements [hierarchy.Item].
func (c *NodeContent) ItemOrder() int { return c.SortOrder }

var _ hierarchy.Item = (*NodeContent)(nil)

// # Validation Bounds

// MaxContentLength bounds the payload of a single content block.
const MaxContentLength = 50000
