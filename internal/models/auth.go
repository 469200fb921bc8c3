package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and the public user projection.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// JWTClaims is the canonical access-token payload. The claim names are
// fixed; tokens with a missing user_id, role or college_code are rejected
// outright rather than defaulted.
type JWTClaims struct {
	UserID      string   `json:"user_id"`
	Role        UserRole `json:"role"`
	CollegeCode string   `json:"college_code"`
	StudentID   string   `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}
