package handler

import "github.com/quillpress/blog-api/internal/core/domain"

type registerRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=30,username"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName"  validate:"omitempty,max=50"`
}

type loginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=50"`
	Bio       *string `json:"bio"       validate:"omitempty,max=500"`
	Avatar    *string `json:"avatar"    validate:"omitempty,url"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type authData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

type userData struct {
	User *domain.User `json:"user"`
}
