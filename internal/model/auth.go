package model

import "github.com/golang-jwt/jwt/v5"

// LoginRequest is the request body for user login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// UserClaims are the JWT claims for an authenticated user
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
