package model

type Category struct {
	BaseModel
	StoreID     string     `db:"store_id" json:"storeId"`
	ParentID    *string    `db:"parent_id" json:"parentId"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	ImageURL    *string    `db:"image_url" json:"imageURL,omitempty"`
	Children    []Category `db:"-" json:"childCategories,omitempty"` // Loaded on demand, not a column
	Parent      *Category  `db:"-" json:"parent,omitempty"`
}

// ParentKey returns the parent id or "" for roots.
func (c Category) ParentKey() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

type Breadcrumb struct {
	Name string `json:"name"`
	Href string `json:"href"`
}
