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
	"commute_tracker/internal/models"
)

// CreateGroup inserts a named group owned by the session user. The
// session check comes before any name validation.
func CreateGroup(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "CreateGroup", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		fail(c, kindValidation, "Name is required")
		return
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		fail(c, kindValidation, "Name too long")
		return
	}

	group := models.RouteGroup{Name: name, UserID: user.ID}
	if err := config.DB.Create(&group).Error; err != nil {
		failUnexpected(c, "CreateGroup", err)
		return
	}

	logrus.WithFields(logrus.Fields{"group_id": group.ID, "user_id": user.ID}).Info("route group created")
	ok(c, gin.H{"group": group})
}

// findOwnedGroup fetches a group and enforces ownership; any miss is a
// uniform Forbidden so callers cannot enumerate other users' group ids.
func findOwnedGroup(c *gin.Context, sess *authz.Session, groupID int) (*models.RouteGroup, bool) {
	var group models.RouteGroup
	err := config.DB.First(&group, groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && authz.Authorize(sess, group.UserID) != nil) {
		fail(c, kindForbidden, "Forbidden")
		return nil, false
	}
	if err != nil {
		failUnexpected(c, "findOwnedGroup", err)
		return nil, false
	}
	return &group, true
}

// UpdateGroupName renames a group the caller owns.
func UpdateGroupName(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "UpdateGroupName", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	idStr := c.PostForm("id")
	name := strings.TrimSpace(c.PostForm("name"))
	if idStr == "" || name == "" {
		fail(c, kindValidation, "ID and name are required")
		return
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		fail(c, kindValidation, "Name too long")
		return
	}
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		fail(c, kindValidation, "Invalid group ID")
		return
	}

	group, found := findOwnedGroup(c, sess, groupID)
	if !found {
		return
	}

	if err := config.DB.Model(group).Update("name", name).Error; err != nil {
		failUnexpected(c, "UpdateGroupName", err)
		return
	}
	ok(c, nil)
}

// DeleteGroup removes a group the caller owns. Member routes are kept
// and ungrouped rather than deleted.
func DeleteGroup(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "DeleteGroup", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	idStr := c.PostForm("id")
	if idStr == "" {
		fail(c, kindValidation, "ID is required")
		return
	}
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		fail(c, kindValidation, "Invalid group ID")
		return
	}

	group, found := findOwnedGroup(c, sess, groupID)
	if !found {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		failUnexpected(c, "DeleteGroup", tx.Error)
		return
	}
	if err := tx.Model(&models.Route{}).Where("route_group_id = ?", group.ID).
		Update("route_group_id", nil).Error; err != nil {
		tx.Rollback()
		failUnexpected(c, "DeleteGroup", err)
		return
	}
	if err := tx.Delete(group).Error; err != nil {
		tx.Rollback()
		failUnexpected(c, "DeleteGroup", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		failUnexpected(c, "DeleteGroup", err)
		return
	}
	ok(c, nil)
}
