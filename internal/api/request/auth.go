package request

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the payload for opening a session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
