package model

type Navigation struct {
	BaseModel
	StoreID string           `db:"store_id" json:"storeId"`
	Name    string           `db:"name" json:"name"`
	Slug    string           `db:"slug" json:"slug"`
	Items   []NavigationItem `db:"-" json:"items"`
}

type NavigationItem struct {
	ID           string           `db:"id" json:"id"`
	NavigationID string           `db:"navigation_id" json:"navigationId"`
	ParentID     *string          `db:"parent_id" json:"parentId"`
	Name         string           `db:"name" json:"name"`
	URL          string           `db:"url" json:"url"`
	SortOrder    int              `db:"sort_order" json:"order"`
	CategoryID   *string          `db:"category_id" json:"categoryId"`
	Items        []NavigationItem `db:"-" json:"items"`
}

func (i NavigationItem) ParentKey() string {
	if i.ParentID == nil {
		return ""
	}
	return *i.ParentID
}
