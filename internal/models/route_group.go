package models

import (
	"gorm.io/gorm"
)

// RouteGroup is a named collection of routes owned by one user.
type RouteGroup struct {
	gorm.Model

	Name   string `gorm:"size:100;not null" json:"name"`
	UserID string `gorm:"index;size:64;not null" json:"user_id"`

	Routes []Route `gorm:"foreignKey:RouteGroupID" json:"routes,omitempty"`
}
