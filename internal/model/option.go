package model

import "time"

type Option struct {
	BaseModel
	StoreID string        `db:"store_id" json:"storeId"`
	Name    string        `db:"name" json:"name"`
	Values  []OptionValue `db:"-" json:"values"`
}

type OptionValue struct {
	ID        string    `db:"id" json:"id"`
	OptionID  string    `db:"option_id" json:"optionId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
