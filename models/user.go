package models

import "time"

type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token" validate:"required"`
}

// Session is derived from the persisted credential on every read; it is never stored.
type Session struct {
	UserID    string
	Username  string
	Email     string
	ExpiresAt time.Time
}
