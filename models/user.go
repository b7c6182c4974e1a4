package models

import "time"

// DefaultProfileImage is used when a user registers without uploading an image.
const DefaultProfileImage = "/images/default-avatar.jpeg"

// User is a registered account.
type User struct {
	ID           string       `json:"id"`
	UserName     string       `json:"userName"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // never leaves the service layer
	ProfileImage string       `json:"profileImage"`
	LoginHistory []LoginEntry `json:"loginHistory"` // most recent first
	CreatedAt    time.Time    `json:"createdAt"`
}

// LoginEntry records one successful login.
type LoginEntry struct {
	DateTime  time.Time `json:"dateTime"`
	UserAgent string    `json:"userAgent"`
}

// RegisterInput is the registration form. ProfileImage is set by the handler
// from the upload result, not by the client.
type RegisterInput struct {
	UserName     string `form:"userName" validate:"required,max=64"`
	Email        string `form:"email" validate:"required,email"`
	Password     string `form:"password" validate:"required"`
	Password2    string `form:"password2" validate:"eqfield=Password"`
	ProfileImage string `form:"-"`
}

// LoginInput is the login form plus the request's User-Agent.
type LoginInput struct {
	UserName  string `form:"userName" validate:"required"`
	Password  string `form:"password" validate:"required"`
	UserAgent string `form:"-"`
}
