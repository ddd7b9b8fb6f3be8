package dto

// RegisterRequest is the body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
