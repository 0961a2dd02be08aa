package schema

// CoreBookNodeTable represents the 'core.booknode' table
type CoreBookNodeTable struct {
	Table       string
	ID          string
	BookID      string
	ParentID    string
	Title       string
	Description string
	NodeType    string
	SortOrder   string
	IsPublished string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
}

// CoreBookNode is the schema definition for core.booknode
var CoreBookNode = CoreBookNodeTable{
	Table:       "core.booknode",
	ID:          "id",
	BookID:      "bookid",
	ParentID:    "parentid",
	Title:       "title",
	Description: "description",
	NodeType:    "nodetype",
	SortOrder:   "sortorder",
	IsPublished: "ispublished",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreBookNodeTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.ParentID, t.Title, t.Description, t.NodeType,
		t.SortOrder, t.IsPublished, t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	}
}
