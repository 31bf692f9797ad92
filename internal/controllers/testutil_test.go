package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"commute_tracker/internal/config"
	"commute_tracker/internal/middleware"
	"commute_tracker/internal/models"
	"commute_tracker/internal/routes"
)

// setupTest points the global DB handle at a throwaway sqlite file and
// returns a router wired exactly like production.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })

	return routes.SetupRouter(), db
}

func seedUser(t *testing.T, db *gorm.DB, id, email string) models.User {
	t.Helper()
	user := models.User{ID: id, Email: email, Provider: "test"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// login persists a session for the user and returns its bearer token.
func login(t *testing.T, db *gorm.DB, user models.User) string {
	t.Helper()
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(middleware.TokenTTL),
	}
	require.NoError(t, db.Create(&session).Error)

	token, err := middleware.GenerateToken(user.ID, session.Token)
	require.NoError(t, err)
	return token
}

func postForm(t *testing.T, r *gin.Engine, path, bearer string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uintStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func longName(n int) string {
	return strings.Repeat("x", n)
}

func millisStr(value time.Time) string {
	return strconv.FormatInt(value.UnixMilli(), 10)
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

type actionResult struct {
	Success bool `json:"success"`
	Error   struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) actionResult {
	t.Helper()
	var res actionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}
