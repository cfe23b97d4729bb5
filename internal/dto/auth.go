package dto

import "time"

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the access token; the refresh token travels in an
// http-only cookie, not in the body.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// GoogleSignInRequest carries a Google ID token obtained by the client.
type GoogleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}
