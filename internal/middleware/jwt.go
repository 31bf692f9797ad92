package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"commute_tracker/internal/authz"
	"commute_tracker/internal/config"
	"commute_tracker/internal/models"
)

// TokenTTL bounds both the JWT and the persisted session row.
const TokenTTL = 72 * time.Hour

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken signs a JWT carrying the user id and the persisted
// session token it was minted alongside.
func GenerateToken(userID, sessionToken string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionToken,
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates the signature and extracts the claims.
func ParseToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireSession validates the bearer JWT, checks the backing session
// row still exists and has not expired, and attaches the resolved
// session for downstream handlers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"kind": "unauthorized", "message": "Missing or invalid Authorization header"}})
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"kind": "unauthorized", "message": "Invalid or expired token"}})
			return
		}

		userID, _ := claims["user_id"].(string)
		sid, _ := claims["sid"].(string)
		if userID == "" || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"kind": "unauthorized", "message": "Invalid token claims"}})
			return
		}

		var session models.Session
		err = config.DB.Where("token = ?", sid).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && session.ExpiresAt.Before(time.Now())) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"kind": "unauthorized", "message": "Session expired or revoked"}})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"kind": "internal", "message": "An unexpected error occurred"}})
			return
		}

		c.Set("session", &authz.Session{UserID: session.UserID})
		c.Set("session_token", session.Token)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid bearer token is
// present but never rejects the request. The form actions run behind
// this so each handler can apply its own validation-before-auth order
// and error wording.
func OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.Next()
			return
		}
		sid, _ := claims["sid"].(string)
		if sid == "" {
			c.Next()
			return
		}

		var session models.Session
		if err := config.DB.Where("token = ?", sid).First(&session).Error; err == nil &&
			session.ExpiresAt.After(time.Now()) {
			c.Set("session", &authz.Session{UserID: session.UserID})
			c.Set("session_token", session.Token)
		}
		c.Next()
	}
}

// SessionFrom returns the session attached by RequireSession or
// OptionalSession, or nil on unauthenticated requests.
func SessionFrom(c *gin.Context) *authz.Session {
	v, exists := c.Get("session")
	if !exists {
		return nil
	}
	sess, _ := v.(*authz.Session)
	return sess
}
