package dto

import "github.com/fekuna/omnipos-catalog-service/internal/navigation/editor"

type NavigationRequest struct {
	Name  string        `json:"name" binding:"required,max=120"`
	Slug  string        `json:"slug" binding:"required,slug"`
	Items []editor.Item `json:"items" binding:"dive"`
}

type CreateNavigationInput struct {
	StoreID string
	NavigationRequest
}

type UpdateNavigationInput struct {
	ID      string
	StoreID string
	NavigationRequest
}

type MoveItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	TargetID string `json:"targetId" binding:"required"`
	Mode     string `json:"mode" binding:"omitempty,oneof=sibling child"`
}

type MoveItemInput struct {
	StoreID      string
	NavigationID string
	ItemID       string
	TargetID     string
	Zone         editor.Zone
}
