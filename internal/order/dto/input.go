package dto

type CartProduct struct {
	ID        string  `json:"id" binding:"required,uuid"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	VariantID *string `json:"variantId" binding:"omitempty,uuid"`
}

type CheckoutRequest struct {
	CartProducts []CartProduct `json:"cartProducts" binding:"dive"`
	Currency     string        `json:"currency" binding:"omitempty,len=3,alpha"`
}

type CheckoutInput struct {
	StoreID     string
	RedirectURL string
	CheckoutRequest
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}
