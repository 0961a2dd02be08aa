package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table         string
	ID            string
	Title         string
	Slug          string
	Description   string
	CoverImageURL string
	SortOrder     string
	AuthorID      string
	CreatedAt     string
	UpdatedAt     string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:         "core.book",
	ID:            "id",
	Title:         "title",
	Slug:          "slug",
	Description:   "description",
	CoverImageURL: "coverimageurl",
	SortOrder:     "sortorder",
	AuthorID:      "authorid",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Description, t.CoverImageURL,
		t.SortOrder, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
