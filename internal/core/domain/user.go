package domain

// User is the identity the BFF exposes to the frontend. Identity is the
// verified email only; everything else about the user lives upstream.
type User struct {
	Email string `json:"email"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User      User   `json:"user"`
	SessionID string `json:"sessionId"`
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	User User `json:"user"`
}
