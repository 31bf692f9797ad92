package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is one issued login, looked up by token on every request.
type Session struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	UserID    string    `gorm:"index;size:64;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Account links a user to one sign-in provider. The credentials
// provider additionally carries a bcrypt password hash.
type Account struct {
	gorm.Model
	UserID            string `gorm:"index;size:64;not null" json:"user_id"`
	Provider          string `gorm:"uniqueIndex:idx_provider_account;size:32;not null" json:"provider"`
	ProviderAccountID string `gorm:"uniqueIndex:idx_provider_account;size:128;not null" json:"provider_account_id"`
	PasswordHash      string `json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Verification is a pending email-verification token.
type Verification struct {
	gorm.Model
	Identifier string    `gorm:"index;not null" json:"identifier"`
	Token      string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
}
