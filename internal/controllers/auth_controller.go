package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commute_tracker/internal/config"
	"commute_tracker/internal/middleware"
	"commute_tracker/internal/models"
)

const verificationTTL = 24 * time.Hour

type signInInput struct {
	Email    string `form:"email" binding:"required,email"`
	Provider string `form:"provider" binding:"required"`
	Subject  string `form:"subject"`
	Name     string `form:"name"`
}

// SignIn maps a completed provider sign-in to a user row, creating it
// on first contact, and issues a session. Provider token verification
// happens upstream.
func SignIn(c *gin.Context) {
	var input signInInput
	if err := c.ShouldBind(&input); err != nil {
		fail(c, kindValidation, "Email and provider are required")
		return
	}
	if input.Subject == "" {
		input.Subject = input.Email
	}

	var user models.User
	err := config.DB.Where("email = ?", input.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:       input.Provider + ":" + input.Subject,
			Email:    input.Email,
			Name:     input.Name,
			Provider: input.Provider,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			// Lost a create race: another request inserted the row first.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
					failUnexpected(c, "SignIn", err)
					return
				}
			} else {
				failUnexpected(c, "SignIn", err)
				return
			}
		}
	} else if err != nil {
		failUnexpected(c, "SignIn", err)
		return
	}

	account := models.Account{
		UserID:            user.ID,
		Provider:          input.Provider,
		ProviderAccountID: input.Subject,
	}
	if err := config.DB.Where("provider = ? AND provider_account_id = ?", input.Provider, input.Subject).
		FirstOrCreate(&account).Error; err != nil {
		failUnexpected(c, "SignIn", err)
		return
	}

	issueSession(c, &user)
}

type signupInput struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
	Name     string `form:"name"`
}

// Signup registers a credentials-provider user and hands back both a
// session and a pending email-verification token.
func Signup(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBind(&input); err != nil {
		fail(c, kindValidation, err.Error())
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		fail(c, kindConflict, "email already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		failUnexpected(c, "Signup", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		failUnexpected(c, "Signup", err)
		return
	}

	user := models.User{
		ID:       "credentials:" + input.Email,
		Email:    input.Email,
		Name:     input.Name,
		Provider: "credentials",
	}
	verification := models.Verification{
		Identifier: input.Email,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(verificationTTL),
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		failUnexpected(c, "Signup", tx.Error)
		return
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(c, kindConflict, "email already in use")
			return
		}
		failUnexpected(c, "Signup", err)
		return
	}
	account := models.Account{
		UserID:            user.ID,
		Provider:          "credentials",
		ProviderAccountID: input.Email,
		PasswordHash:      string(hash),
	}
	if err := tx.Create(&account).Error; err != nil {
		tx.Rollback()
		failUnexpected(c, "Signup", err)
		return
	}
	if err := tx.Create(&verification).Error; err != nil {
		tx.Rollback()
		failUnexpected(c, "Signup", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		failUnexpected(c, "Signup", err)
		return
	}

	// TODO: deliver the verification token by mail instead of in the
	// response once an SMTP relay is configured.
	issueSession(c, &user, gin.H{"verification_token": verification.Token})
}

type loginInput struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// Login authenticates a credentials-provider user.
func Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		fail(c, kindValidation, err.Error())
		return
	}

	var account models.Account
	err := config.DB.Preload("User").
		Where("provider = ? AND provider_account_id = ?", "credentials", input.Email).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, kindUnauthorized, "user not found or invalid credentials")
		return
	}
	if err != nil {
		failUnexpected(c, "Login", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		fail(c, kindUnauthorized, "user not found or invalid credentials")
		return
	}

	issueSession(c, &account.User)
}

// Verify consumes a pending email-verification token.
func Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		fail(c, kindValidation, "No verification token provided")
		return
	}

	var verification models.Verification
	err := config.DB.Where("token = ?", token).First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, kindNotFound, "Verification token not found")
		return
	}
	if err != nil {
		failUnexpected(c, "Verify", err)
		return
	}
	if verification.ExpiresAt.Before(time.Now()) {
		fail(c, kindValidation, "Verification token expired")
		return
	}

	if err := config.DB.Model(&models.User{}).
		Where("email = ?", verification.Identifier).
		Update("email_verified", true).Error; err != nil {
		failUnexpected(c, "Verify", err)
		return
	}
	config.DB.Delete(&verification)

	ok(c, nil)
}

// Logout revokes the calling session.
func Logout(c *gin.Context) {
	token := c.GetString("session_token")
	if err := config.DB.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		failUnexpected(c, "Logout", err)
		return
	}
	ok(c, nil)
}

// issueSession persists a session row and replies with its JWT.
func issueSession(c *gin.Context, user *models.User, extra ...gin.H) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(middleware.TokenTTL),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		failUnexpected(c, "issueSession", err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, session.Token)
	if err != nil {
		failUnexpected(c, "issueSession", err)
		return
	}

	logrus.WithField("user_id", user.ID).Info("session issued")
	payload := gin.H{"token": token, "user": user}
	for _, e := range extra {
		for k, v := range e {
			payload[k] = v
		}
	}
	ok(c, payload)
}
