package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string  `json:"last_name"  validate:"required,min=2,max=100"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password"   validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreateUserRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string  `json:"last_name"  validate:"required,min=2,max=100"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password"   validate:"required,min=8"`
	Role      string  `json:"role"       validate:"required,oneof=ADMIN EMPLOYE CLIENT"`
}

type UpdateProfileRequest struct {
	FirstName   string  `json:"first_name"   validate:"omitempty,min=2,max=100"`
	LastName    string  `json:"last_name"    validate:"omitempty,min=2,max=100"`
	Phone       *string `json:"phone"`
	Email       string  `json:"email"        validate:"omitempty,email"`
	NewPassword string  `json:"new_password" validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     *string         `json:"phone"`
	Role      string          `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// ProfileResponse carries fresh tokens when a password change invalidates the
// old ones.
type ProfileResponse struct {
	UserResponse
	Tokens *LoginResponse `json:"tokens,omitempty"`
}
