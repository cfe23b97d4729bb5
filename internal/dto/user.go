package dto

import (
	"time"

	"github.com/lendtrack/lendtrack_backend/internal/core/domain"
)

// RegisterUserRequest defines the data needed to create an account.
// Password strength beyond length is not enforced server-side.
type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"omitempty,max=255"`
}

// UpdateUserRequest defines the fields a user may change on their own profile.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// UserResponse is the wire representation of a user. The password hash and
// refresh token state never leave the service layer.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToUserResponse converts a domain.User to its wire representation.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
