package models

import "time"

type Admin struct {
	ID                int        `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	IsActive          bool       `json:"is_active"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	CreatedBy         *int       `json:"created_by,omitempty"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type UpdateAdminRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	// Пустой пароль = хеш не трогаем
	Password *string `json:"password,omitempty"`
}
