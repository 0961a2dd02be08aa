// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

/*
Package comment manages reader discussion attached to book nodes.

Comments are flat (no threading) and listed newest first. Editing is
reserved to the comment's author and marks the comment as edited;
deletion is open to the author and to moderators.
*/
package comment

import "time"

// Comment is a single reader remark on a book node.
type Comment struct {
	ID        string     `json:"id"`
	NodeID    string     `json:"node_id"`
	AuthorID  string     `json:"author_id"`
	Content   string     `json:"content"`
	IsEdited  bool       `json:"is_edited"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MaxContentLength bounds a single comment.
const MaxContentLength = 5000
