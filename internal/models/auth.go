package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer is the token_type returned with every token pair.
const TokenTypeBearer = "bearer"

// AccessTokenType marks a JWT as usable on the Authorization header.
const AccessTokenType = "access"

// LoginRequest holds form credentials for authenticating a user.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// TokenResponse returns the issued tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenClaims is the payload of an access token. Subject holds the user id.
type TokenClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// RequestMeta carries client details recorded with sessions and audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}
