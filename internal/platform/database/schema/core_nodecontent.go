package schema

// CoreNodeContentTable represents the 'core.nodecontent' table
type CoreNodeContentTable struct {
	Table       string
	ID          string
	NodeID      string
	ContentType string
	Content     string
	Metadata    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// CoreNodeContent is the schema definition for core.nodecontent
var CoreNodeContent = CoreNodeContentTable{
	Table:       "core.nodecontent",
	ID:          "id",
	NodeID:      "nodeid",
	ContentType: "contenttype",
	Content:     "content",
	Metadata:    "metadata",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
