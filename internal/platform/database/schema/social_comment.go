package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table     string
	ID        string
	NodeID    string
	UserID    string
	Content   string
	IsEdited  string
	CreatedAt string
	UpdatedAt string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:     "social.comment",
	ID:        "id",
	NodeID:    "nodeid",
	UserID:    "userid",
	Content:   "content",
	IsEdited:  "isedited",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
