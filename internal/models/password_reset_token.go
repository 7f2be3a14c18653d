package models

import "time"

type PasswordResetToken struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email string `gorm:"size:100;index;not null" json:"email"`
	Token string `gorm:"size:64;uniqueIndex;not null" json:"-"`

	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
}
