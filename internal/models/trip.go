package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip is one timed traversal of a route. Location and path payloads
// are stored as opaque JSON, the app never interprets them.
type Trip struct {
	gorm.Model

	RouteID       uint       `gorm:"index;not null" json:"route_id"`
	StartTime     time.Time  `gorm:"not null" json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	StartLocation JSONValue  `gorm:"type:jsonb;default:'{}'" json:"start_location"`
	EndLocation   JSONValue  `gorm:"type:jsonb;default:'{}'" json:"end_location"`
	Path          JSONValue  `gorm:"type:jsonb;default:'{}'" json:"path"`
}
