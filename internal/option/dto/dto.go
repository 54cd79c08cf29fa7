package dto

type OptionRequest struct {
	Name   string   `json:"name" binding:"required,max=60"`
	Values []string `json:"values" binding:"required,min=1,dive,required,max=60"`
}

type CreateOptionInput struct {
	StoreID string
	OptionRequest
}

type UpdateOptionInput struct {
	ID      string
	StoreID string
	OptionRequest
}

type CombinationsRequest struct {
	OptionIDs []string `form:"optionIds" json:"optionIds" binding:"required,min=1,dive,uuid"`
}
