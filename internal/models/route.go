package models

import (
	"gorm.io/gorm"
)

// Route is a named commute path owned by exactly one user, optionally a
// member of one of that user's route groups.
type Route struct {
	gorm.Model

	Name         string `json:"name"`
	UserID       string `gorm:"index;size:64;not null" json:"user_id"`
	RouteGroupID *uint  `gorm:"index" json:"route_group_id"`

	// Deleting a group ungroups its routes; trips block route deletion.
	RouteGroup *RouteGroup `gorm:"foreignKey:RouteGroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"route_group,omitempty"`
	Trips      []Trip      `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"trips,omitempty"`
}
