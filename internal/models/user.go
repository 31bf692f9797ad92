package models

import (
	"time"
)

// User is an identity row keyed by the external identity provider's
// subject id. Users are created on first successful sign-in and never
// deleted by the app.
type User struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Email         string    `gorm:"unique;not null" json:"email"`
	Name          string    `json:"name"`
	Provider      string    `gorm:"not null" json:"provider"`
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Routes      []Route      `gorm:"foreignKey:UserID" json:"routes,omitempty"`
	RouteGroups []RouteGroup `gorm:"foreignKey:UserID" json:"route_groups,omitempty"`
}
