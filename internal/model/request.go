package model

type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProductInput carries the multipart form fields of a product create or
// update request. The image arrives as a separate file part.
type ProductInput struct {
	Title       string  `form:"title" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Description string  `form:"description" validate:"required"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

type RemoveFromCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
}

type UpdateCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Method    string `json:"method" validate:"required,oneof=increment decrement"`
}
