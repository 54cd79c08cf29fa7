package dto

type CreateStoreRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateStoreInput struct {
	UserID string
	CreateStoreRequest
}

type UpdateStoreRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Logo        *string `json:"logo" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Facebook    *string `json:"facebook" binding:"omitempty,max=255"`
	Instagram   *string `json:"instagram" binding:"omitempty,max=255"`
	Twitter     *string `json:"twitter" binding:"omitempty,max=255"`
}

type UpdateStoreInput struct {
	ID     string
	UserID string
	UpdateStoreRequest
}
