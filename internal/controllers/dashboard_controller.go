package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"commute_tracker/internal/config"
	"commute_tracker/internal/models"
)

// Dashboard returns everything the route list page renders: the
// caller's ungrouped routes and their groups, each route carrying its
// trips most-recent-start-first.
func Dashboard(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "Dashboard", err)
		return
	}
	if sess == nil || user == nil {
		// No session, or a session that outlived its user row: render
		// an empty page rather than an error.
		ok(c, gin.H{"routes": []models.Route{}, "groups": []models.RouteGroup{}})
		return
	}

	recentTripsFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("start_time DESC")
	}
	oldestRoutesFirst := func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}

	var ungrouped []models.Route
	if err := config.DB.Preload("Trips", recentTripsFirst).
		Where("user_id = ? AND route_group_id IS NULL", user.ID).
		Order("created_at ASC").
		Find(&ungrouped).Error; err != nil {
		failUnexpected(c, "Dashboard", err)
		return
	}

	var groups []models.RouteGroup
	if err := config.DB.Preload("Routes", oldestRoutesFirst).
		Preload("Routes.Trips", recentTripsFirst).
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&groups).Error; err != nil {
		failUnexpected(c, "Dashboard", err)
		return
	}

	ok(c, gin.H{"routes": ungrouped, "groups": groups})
}
