package dto

import "github.com/noah-isme/inventory-admin-api/internal/models"

// CreateUserRequest is the payload for admin user creation and self registration.
type CreateUserRequest struct {
	Email          string       `json:"email" validate:"required,email,max=255"`
	Password       string       `json:"password" validate:"required,min=8,max=128"`
	FirstName      string       `json:"first_name" validate:"required,max=50"`
	LastName       string       `json:"last_name" validate:"required,max=50"`
	PhoneNumber    *string      `json:"phone_number" validate:"omitempty,max=20"`
	ProfilePicture *string      `json:"profile_picture" validate:"omitempty,max=255"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	Gender         *string      `json:"gender" validate:"omitempty,max=20"`
	RoleID         *int         `json:"role_id" validate:"omitempty,min=1,max=5"`
	IsActive       *bool        `json:"is_active"`
}

// UpdateUserRequest is a partial admin update. Nil fields are left untouched.
type UpdateUserRequest struct {
	Email          *string      `json:"email" validate:"omitempty,email,max=255"`
	FirstName      *string      `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName       *string      `json:"last_name" validate:"omitempty,min=1,max=50"`
	PhoneNumber    *string      `json:"phone_number" validate:"omitempty,max=20"`
	ProfilePicture *string      `json:"profile_picture" validate:"omitempty,max=255"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	Gender         *string      `json:"gender" validate:"omitempty,max=20"`
	RoleID         *int         `json:"role_id" validate:"omitempty,min=1,max=5"`
	IsActive       *bool        `json:"is_active"`
	Password       *string      `json:"password" validate:"omitempty,min=8,max=128"`
}

// UpdateMeRequest restricts self updates to profile fields.
type UpdateMeRequest struct {
	FirstName      *string      `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName       *string      `json:"last_name" validate:"omitempty,min=1,max=50"`
	PhoneNumber    *string      `json:"phone_number" validate:"omitempty,max=20"`
	ProfilePicture *string      `json:"profile_picture" validate:"omitempty,max=255"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	Gender         *string      `json:"gender" validate:"omitempty,max=20"`
}

// Pagination carries skip/limit query parameters.
type Pagination struct {
	Skip  int `form:"skip,default=0"`
	Limit int `form:"limit,default=100"`
}
