package models

import "time"

// Session represents a persisted refresh token grant.
type Session struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	DeviceInfo   *string   `db:"device_info" json:"device_info"`
	IPAddress    *string   `db:"ip_address" json:"ip_address"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	IsRevoked    bool      `db:"is_revoked" json:"is_revoked"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsValid reports whether the session can still be exchanged for access tokens.
func (s *Session) IsValid(now time.Time) bool {
	return s != nil && !s.IsRevoked && s.ExpiresAt.After(now)
}
