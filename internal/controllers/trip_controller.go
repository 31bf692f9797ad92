package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"commute_tracker/internal/authz"
	"commute_tracker/internal/config"
	"commute_tracker/internal/models"
)

// parseTripTime accepts RFC3339 or epoch milliseconds, the two formats
// the clients produce.
func parseTripTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, errors.New("unparseable time: " + raw)
}

// parseBlob validates an opaque JSON field. Objects, arrays and
// scalars are all accepted; only malformed input is rejected.
func parseBlob(raw string) (models.JSONValue, error) {
	if raw == "" {
		return models.JSONValue("{}"), nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, errors.New("invalid JSON: " + raw)
	}
	return models.JSONValue(raw), nil
}

// PostTrip records one timed traversal of a route the caller owns.
func PostTrip(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "PostTrip", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	startStr := c.PostForm("startTime")
	endStr := c.PostForm("endTime")
	routeIDStr := c.PostForm("routeId")
	if startStr == "" || endStr == "" || routeIDStr == "" {
		fail(c, kindValidation, "No route id provided")
		return
	}

	startTime, err := parseTripTime(startStr)
	if err != nil {
		fail(c, kindValidation, "Invalid date provided")
		return
	}
	endTime, err := parseTripTime(endStr)
	if err != nil {
		fail(c, kindValidation, "Invalid date provided")
		return
	}

	routeID, err := strconv.Atoi(routeIDStr)
	if err != nil {
		fail(c, kindValidation, "Invalid route ID")
		return
	}

	startLocation, err := parseBlob(c.PostForm("startLocation"))
	if err != nil {
		fail(c, kindValidation, "Invalid startLocation JSON")
		return
	}
	endLocation, err := parseBlob(c.PostForm("endLocation"))
	if err != nil {
		fail(c, kindValidation, "Invalid endLocation JSON")
		return
	}
	path, err := parseBlob(c.PostForm("path"))
	if err != nil {
		fail(c, kindValidation, "Invalid path JSON")
		return
	}

	var route models.Route
	if err := config.DB.First(&route, routeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, kindNotFound, "Route not found")
		} else {
			failUnexpected(c, "PostTrip", err)
		}
		return
	}
	if err := authz.Authorize(sess, route.UserID); err != nil {
		fail(c, kindForbidden, "Forbidden")
		return
	}

	trip := models.Trip{
		RouteID:       route.ID,
		StartTime:     startTime,
		EndTime:       &endTime,
		StartLocation: startLocation,
		EndLocation:   endLocation,
		Path:          path,
	}
	if err := config.DB.Create(&trip).Error; err != nil {
		failUnexpected(c, "PostTrip", err)
		return
	}

	logrus.WithFields(logrus.Fields{"trip_id": trip.ID, "route_id": route.ID}).Info("trip recorded")
	ok(c, gin.H{"trip": trip})
}

// DeleteTrip removes one trip, reachable only through a route the
// caller owns.
func DeleteTrip(c *gin.Context) {
	sess, user, err := currentUser(c)
	if err != nil {
		failUnexpected(c, "DeleteTrip", err)
		return
	}
	if sess == nil || user == nil {
		fail(c, kindUnauthorized, "Unauthorized")
		return
	}

	idStr := c.PostForm("id")
	if idStr == "" {
		fail(c, kindValidation, "No trip id provided")
		return
	}
	tripID, err := strconv.Atoi(idStr)
	if err != nil {
		fail(c, kindValidation, "Invalid trip ID")
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, kindNotFound, "Trip not found")
		} else {
			failUnexpected(c, "DeleteTrip", err)
		}
		return
	}

	var route models.Route
	if err := config.DB.First(&route, trip.RouteID).Error; err != nil {
		failUnexpected(c, "DeleteTrip", err)
		return
	}
	if err := authz.Authorize(sess, route.UserID); err != nil {
		fail(c, kindForbidden, "Forbidden")
		return
	}

	if err := config.DB.Delete(&trip).Error; err != nil {
		failUnexpected(c, "DeleteTrip", err)
		return
	}
	ok(c, nil)
}
