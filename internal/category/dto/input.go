package dto

// CategoryRequest is the body of create and update calls.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description" binding:"max=2000"`
	ImageURL    string  `json:"imageURL" binding:"omitempty,url"`
	// An empty parentId means no parent.
	ParentID *string `json:"parentId" binding:"omitempty,uuid|eq="`
}

type CreateCategoryInput struct {
	StoreID string
	CategoryRequest
}

type UpdateCategoryInput struct {
	ID      string
	StoreID string
	CategoryRequest
}
