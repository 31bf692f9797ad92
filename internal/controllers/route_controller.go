package controllers

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"commute_tracker/internal/authz"
	"commute_tracker/internal/config"
	"commute_tracker/internal/middleware"
	"commute_tracker/internal/models"
)

const maxNameLength = 100

// currentUser resolves the request session to its user row.
func currentUser(c *gin.Context) (*authz.Session, *models.User, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, nil, nil
	}
	var user models.User
	err := config.DB.First(&user, "id = ?", sess.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sess, nil, nil
	}
	if err != nil {
		return sess, nil, err
	}
	return sess, &user, nil
}

// PostRoute creates a route for the session user. A group id that does
// not resolve to one of the caller's own groups is dropped and the
// route is created ungrouped.
func PostRoute(c *gin.Context) {
	sess, user, err := currentUser(c)
	if sess == nil {
		fail(c, kindUnauthorized, "No user id provided")
		return
	}
	if err != nil {
		failUnexpected(c, "PostRoute", err)
		return
	}
	if user == nil {
		fail(c, kindNotFound, "User not found")
		return
	}

	routeName := strings.TrimSpace(c.PostForm("routeName"))
	if routeName == "" {
		fail(c, kindValidation, "Route name is required")
		return
	}

	route := models.Route{Name: routeName, UserID: user.ID}
	if groupIDStr := c.PostForm("routeGroupId"); groupIDStr != "" {
		if groupID, err := strconv.ParseUint(groupIDStr, 10, 32); err == nil {
			var group models.RouteGroup
			err := config.DB.Where("id = ? AND user_id = ?", uint(groupID), user.ID).First(&group).Error
			if err == nil {
				route.RouteGroupID = &group.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				failUnexpected(c, "PostRoute", err)
				return
			}
		}
	}

	if err := config.DB.Create(&route).Error; err != nil {
		failUnexpected(c, "PostRoute", err)
		return
	}

	logrus.WithFields(logrus.Fields{"route_id": route.ID, "user_id": user.ID}).Info("route created")
	ok(c, gin.H{"route": route})
}

// UpdateRouteName renames a route. Validation short-circuits in a fixed
// order before any session or storage work happens.
func UpdateRouteName(c *gin.Context) {
	routeIDStr := c.PostForm("routeId")
	newName := c.PostForm("newName")
	if routeIDStr == "" || newName == "" {
		fail(c, kindValidation, "Route ID and new name are required")
		return
	}

	routeID, err := strconv.Atoi(routeIDStr)
	if err != nil {
		fail(c, kindValidation, "Invalid route ID")
		return
	}

	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		fail(c, kindValidation, "Route name cannot be empty")
		return
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		fail(c, kindValidation, "Route name cannot exceed 100 characters")
		return
	}

	sess, user, err := currentUser(c)
	if sess == nil {
		fail(c, kindUnauthorized, "Authentication required")
		return
	}
	if err != nil {
		failUnexpected(c, "UpdateRouteName", err)
		return
	}
	if user == nil {
		fail(c, kindUnauthorized, "User not found")
		return
	}

	var route models.Route
	if err := config.DB.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, kindNotFound, "Route not found")
		} else {
			failUnexpected(c, "UpdateRouteName", err)
		}
		return
	}

	if err := authz.Authorize(sess, route.UserID); err != nil {
		fail(c, kindForbidden, "You do not have permission to edit this route")
		return
	}

	if err := config.DB.Model(&route).Update("name", trimmed).Error; err != nil {
		failUnexpected(c, "UpdateRouteName", err)
		return
	}

	ok(c, nil)
}

// DeleteRoute removes a route owned by the session user. Routes with
// recorded trips are kept, mirroring the RESTRICT constraint.
func DeleteRoute(c *gin.Context) {
	idStr := c.PostForm("id")
	if idStr == "" {
		fail(c, kindValidation, "No route id provided")
		return
	}
	routeID, err := strconv.Atoi(idStr)
	if err != nil {
		fail(c, kindValidation, "Invalid route ID")
		return
	}

	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "DeleteRoute", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	var route models.Route
	if err := config.DB.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, kindNotFound, "Route not found")
		} else {
			failUnexpected(c, "DeleteRoute", err)
		}
		return
	}
	if err := authz.Authorize(sess, route.UserID); err != nil {
		fail(c, kindForbidden, "Forbidden")
		return
	}

	var trips int64
	if err := config.DB.Model(&models.Trip{}).Where("route_id = ?", route.ID).Count(&trips).Error; err != nil {
		failUnexpected(c, "DeleteRoute", err)
		return
	}
	if trips > 0 {
		fail(c, kindConflict, "Route has recorded trips")
		return
	}

	if err := config.DB.Delete(&route).Error; err != nil {
		failUnexpected(c, "DeleteRoute", err)
		return
	}
	ok(c, nil)
}

// MoveRouteToGroup reassigns a route to one of the caller's groups, or
// ungroups it when groupId is empty.
func MoveRouteToGroup(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "MoveRouteToGroup", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	routeIDStr := c.PostForm("routeId")
	if routeIDStr == "" {
		fail(c, kindValidation, "Route ID is required")
		return
	}
	routeID, err := strconv.Atoi(routeIDStr)
	if err != nil {
		fail(c, kindValidation, "Invalid route ID")
		return
	}

	var route models.Route
	err = config.DB.First(&route, routeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && authz.Authorize(sess, route.UserID) != nil) {
		fail(c, kindForbidden, "Forbidden")
		return
	}
	if err != nil {
		failUnexpected(c, "MoveRouteToGroup", err)
		return
	}

	var groupRef *uint
	if groupIDStr := c.PostForm("groupId"); groupIDStr != "" {
		groupID, err := strconv.Atoi(groupIDStr)
		if err != nil {
			fail(c, kindValidation, "Invalid group ID")
			return
		}
		var group models.RouteGroup
		err = config.DB.First(&group, groupID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && authz.Authorize(sess, group.UserID) != nil) {
			fail(c, kindForbidden, "Forbidden")
			return
		}
		if err != nil {
			failUnexpected(c, "MoveRouteToGroup", err)
			return
		}
		groupRef = &group.ID
	}

	if err := config.DB.Model(&route).Update("route_group_id", groupRef).Error; err != nil {
		failUnexpected(c, "MoveRouteToGroup", err)
		return
	}
	ok(c, nil)
}
