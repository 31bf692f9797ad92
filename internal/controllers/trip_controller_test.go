package controllers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"commute_tracker/internal/models"
)

func TestPostTrip(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":   {uintStr(route.ID)},
		"startTime": {"2025-06-01T08:00:00Z"},
		"endTime":   {"2025-06-01T08:45:00Z"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "route_id = ?", route.ID).Error)
	assert.True(t, trip.StartTime.Equal(testTime(t, "2025-06-01T08:00:00Z")))
	require.NotNil(t, trip.EndTime)
	assert.True(t, trip.EndTime.Equal(testTime(t, "2025-06-01T08:45:00Z")))
}

func TestPostTripJSONRoundTrip(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":       {uintStr(route.ID)},
		"startTime":     {"2025-06-01T08:00:00Z"},
		"endTime":       {"2025-06-01T08:45:00Z"},
		"startLocation": {`{"lat":52.52,"lng":13.405}`},
		"endLocation":   {`{"lat":52.5,"lng":13.39,"label":"office"}`},
		"path":          {`{"points":[[52.52,13.405],[52.5,13.39]]}`},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "route_id = ?", route.ID).Error)
	assert.JSONEq(t, `{"lat":52.52,"lng":13.405}`, string(trip.StartLocation))
	assert.JSONEq(t, `{"lat":52.5,"lng":13.39,"label":"office"}`, string(trip.EndLocation))
	assert.JSONEq(t, `{"points":[[52.52,13.405],[52.5,13.39]]}`, string(trip.Path))
}

func TestPostTripAcceptsArrayPath(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	// Clients send path as an array of points, not an object.
	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":   {uintStr(route.ID)},
		"startTime": {"2025-06-01T08:00:00Z"},
		"endTime":   {"2025-06-01T08:45:00Z"},
		"path":      {`[{"lat":40.0},{"lat":40.1}]`},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "route_id = ?", route.ID).Error)
	assert.JSONEq(t, `[{"lat":40.0},{"lat":40.1}]`, string(trip.Path))
	assert.JSONEq(t, `{}`, string(trip.StartLocation))
}

func TestPostTripDefaultsBlobsToEmptyObjects(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":   {uintStr(route.ID)},
		"startTime": {"2025-06-01T08:00:00Z"},
		"endTime":   {"2025-06-01T08:45:00Z"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "route_id = ?", route.ID).Error)
	assert.JSONEq(t, `{}`, string(trip.StartLocation))
	assert.JSONEq(t, `{}`, string(trip.EndLocation))
	assert.JSONEq(t, `{}`, string(trip.Path))
}

func TestPostTripAcceptsEpochMillis(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	start := testTime(t, "2025-06-01T08:00:00Z")
	end := testTime(t, "2025-06-01T08:45:00Z")
	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":   {uintStr(route.ID)},
		"startTime": {millisStr(start)},
		"endTime":   {millisStr(end)},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var trip models.Trip
	require.NoError(t, db.First(&trip, "route_id = ?", route.ID).Error)
	assert.True(t, trip.StartTime.Equal(start))
}

func TestPostTripValidation(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)

	cases := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"missing routeId", url.Values{"startTime": {"2025-06-01T08:00:00Z"}, "endTime": {"2025-06-01T08:45:00Z"}}, "No route id provided"},
		{"missing startTime", url.Values{"routeId": {uintStr(route.ID)}, "endTime": {"2025-06-01T08:45:00Z"}}, "No route id provided"},
		{"missing endTime", url.Values{"routeId": {uintStr(route.ID)}, "startTime": {"2025-06-01T08:00:00Z"}}, "No route id provided"},
		{"bad startTime", url.Values{"routeId": {uintStr(route.ID)}, "startTime": {"yesterday"}, "endTime": {"2025-06-01T08:45:00Z"}}, "Invalid date provided"},
		{"bad endTime", url.Values{"routeId": {uintStr(route.ID)}, "startTime": {"2025-06-01T08:00:00Z"}, "endTime": {"later"}}, "Invalid date provided"},
		{"bad path JSON", url.Values{"routeId": {uintStr(route.ID)}, "startTime": {"2025-06-01T08:00:00Z"}, "endTime": {"2025-06-01T08:45:00Z"}, "path": {"{not json"}}, "Invalid path JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(t, r, "/actions/postTrip", token, tc.form)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, decodeResult(t, w).Error.Message)
		})
	}
}

func TestPostTripForeignRoute(t *testing.T) {
	r, db := setupTest(t)
	owner := seedUser(t, db, "user-1", "one@example.com")
	intruder := seedUser(t, db, "user-2", "two@example.com")
	token := login(t, db, intruder)

	route := models.Route{Name: "Not My Route", UserID: owner.ID}
	require.NoError(t, db.Create(&route).Error)

	w := postForm(t, r, "/actions/postTrip", token, url.Values{
		"routeId":   {uintStr(route.ID)},
		"startTime": {"2025-06-01T08:00:00Z"},
		"endTime":   {"2025-06-01T08:45:00Z"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Trip{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteTrip(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	route := models.Route{Name: "Via the bridge", UserID: user.ID}
	require.NoError(t, db.Create(&route).Error)
	trip := models.Trip{RouteID: route.ID, StartTime: testTime(t, "2025-06-01T08:00:00Z")}
	require.NoError(t, db.Create(&trip).Error)

	w := postForm(t, r, "/actions/deleteTrip", token, url.Values{"id": {uintStr(trip.ID)}})
	require.Equal(t, http.StatusOK, w.Code)

	err := db.First(&models.Trip{}, trip.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteTripRequiresID(t *testing.T) {
	r, db := setupTest(t)
	user := seedUser(t, db, "user-1", "one@example.com")
	token := login(t, db, user)

	w := postForm(t, r, "/actions/deleteTrip", token, url.Values{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No trip id provided", decodeResult(t, w).Error.Message)
}

func TestDeleteTripForeignRoute(t *testing.T) {
	r, db := setupTest(t)
	owner := seedUser(t, db, "user-1", "one@example.com")
	intruder := seedUser(t, db, "user-2", "two@example.com")
	token := login(t, db, intruder)

	route := models.Route{Name: "Not My Route", UserID: owner.ID}
	require.NoError(t, db.Create(&route).Error)
	trip := models.Trip{RouteID: route.ID, StartTime: testTime(t, "2025-06-01T08:00:00Z")}
	require.NoError(t, db.Create(&trip).Error)

	w := postForm(t, r, "/actions/deleteTrip", token, url.Values{"id": {uintStr(trip.ID)}})
	require.Equal(t, http.StatusForbidden, w.Code)

	assert.NoError(t, db.First(&models.Trip{}, trip.ID).Error)
}
