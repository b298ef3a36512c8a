package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// RegisterResponse is returned after a successful account registration.
type RegisterResponse struct {
	User      UserInfo `json:"user"`
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	NIPOrNIM string   `json:"nip_or_nim,omitempty"`
}

// JWTClaims is the signed token payload.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	NIPOrNIM string   `json:"nip_or_nim,omitempty"`
	jwt.RegisteredClaims
}

// NIM returns the student number carried by a mahasiswa token.
func (c *JWTClaims) NIM() (int64, bool) {
	if c == nil || c.Role != RoleMahasiswa || c.NIPOrNIM == "" {
		return 0, false
	}
	nim, err := strconv.ParseInt(c.NIPOrNIM, 10, 64)
	if err != nil {
		return 0, false
	}
	return nim, true
}
