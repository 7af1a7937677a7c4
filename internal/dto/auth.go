// Package dto defines HTTP request and response shapes.
package dto

import (
	"regexp"
	"time"

	"github.com/eduflow/course-booking/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Validate checks email format and password strength
func (r *RegisterRequest) Validate() error {
	if !emailPattern.MatchString(r.Email) {
		return domain.ErrInvalidEmail
	}
	if len(r.Password) < 8 {
		return domain.ErrWeakPassword
	}
	return nil
}

// UpdateProfileRequest represents a profile update payload. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UserResponse is a user without the password field
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	IsAdmin        bool   `json:"isAdmin"`
	RegisteredDate string `json:"registeredDate,omitempty"`
}

// UserFromDomain converts a domain user to a response
func UserFromDomain(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Phone:   u.Phone,
		Address: u.Address,
		IsAdmin: u.IsAdmin,
	}
	if !u.RegisteredDate.IsZero() {
		resp.RegisteredDate = u.RegisteredDate.UTC().Format(time.RFC3339)
	}
	return resp
}

// LoginResponse is returned after a successful login or registration
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt string        `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}
