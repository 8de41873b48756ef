package dto

import (
	"time"

	"github.com/spec-kit/delivery-service/internal/domain"
)

// RegisterRequest payload for customer/agent self-registration.
type RegisterRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Phone     string          `json:"phone"`
	Role      string          `json:"role"`
	Address   *domain.Address `json:"address"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest payload for initiating a reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload for consuming a reset token.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserResponse is a profile with the password hash and reset fields
// stripped. Variant fields are present only for the matching role.
type UserResponse struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Role            domain.Role     `json:"role"`
	CreatedAt       time.Time       `json:"createdAt"`
	Address         *domain.Address `json:"address,omitempty"`
	Orders          []string        `json:"orders,omitempty"`
	Available       *bool           `json:"available,omitempty"`
	Rating          *float64        `json:"rating,omitempty"`
	TotalDeliveries *int            `json:"totalDeliveries,omitempty"`
	CurrentOrder    *string         `json:"currentOrder,omitempty"`
	Department      string          `json:"department,omitempty"`
	Permissions     []string        `json:"permissions,omitempty"`
}

// NewUserResponse maps a domain user to its public profile.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		Address:   user.Address,
	}

	switch user.Role {
	case domain.RoleCustomer:
		resp.Orders = user.OrderIDs
	case domain.RoleAgent:
		available := user.Available
		rating := user.Rating
		deliveries := user.TotalDeliveries
		resp.Available = &available
		resp.Rating = &rating
		resp.TotalDeliveries = &deliveries
		resp.CurrentOrder = user.CurrentOrderID
	case domain.RoleAdmin:
		resp.Department = user.Department
		resp.Permissions = user.Permissions
	}
	return resp
}
