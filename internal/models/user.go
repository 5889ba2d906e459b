package models

import "time"

// Role identifiers seeded at bootstrap. Lower numbers carry more privilege.
const (
	RoleSuperAdmin = 1
	RoleAdmin      = 2
	RoleModerator  = 3
	RoleOperative  = 4
	RoleVisitor    = 5

	DefaultRoleID = RoleVisitor
)

// User represents an application user stored in the users table.
type User struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	PhoneNumber    *string   `db:"phone_number" json:"phone_number"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture"`
	DateOfBirth    *Date     `db:"date_of_birth" json:"date_of_birth"`
	Gender         *string   `db:"gender" json:"gender"`
	RoleID         int       `db:"role_id" json:"role_id"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// IsSuperAdmin reports whether the user holds the highest rank.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.RoleID == RoleSuperAdmin
}

// UserFilter captures pagination and visibility criteria for listing users.
type UserFilter struct {
	Skip          int
	Limit         int
	ExcludeRoleID *int
}
