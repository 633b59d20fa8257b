package authservice

type RegisterRequest struct {
	Email    string  `json:"email"     validate:"required,email,max=255"`
	Username string  `json:"username"  validate:"required,min=1,max=50,username"`
	Password string  `json:"password"  validate:"required,min=8,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"` //nolint:tagliatelle
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
