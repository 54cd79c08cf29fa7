package model

type User struct {
	BaseModel
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

const RoleUser = "USER"

type Store struct {
	BaseModel
	UserID      string  `db:"user_id" json:"userId"`
	Name        string  `db:"name" json:"name"`
	Logo        *string `db:"logo" json:"logo"`
	Description *string `db:"description" json:"description"`
	Address     *string `db:"address" json:"address"`
	Phone       *string `db:"phone" json:"phone"`
	Email       *string `db:"email" json:"email"`
	Facebook    *string `db:"facebook" json:"facebook"`
	Instagram   *string `db:"instagram" json:"instagram"`
	Twitter     *string `db:"twitter" json:"twitter"`
}
