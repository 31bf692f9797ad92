package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Every action responds with the same discriminated shape:
// {"success":true, ...} or {"success":false,"error":{"kind","message"}}.
// The HTTP status follows from the error kind.

const (
	kindValidation   = "validation"
	kindUnauthorized = "unauthorized"
	kindForbidden    = "forbidden"
	kindNotFound     = "not_found"
	kindConflict     = "conflict"
	kindInternal     = "internal"
)

func statusFor(kind string) int {
	switch kind {
	case kindValidation:
		return http.StatusBadRequest
	case kindUnauthorized:
		return http.StatusUnauthorized
	case kindForbidden:
		return http.StatusForbidden
	case kindNotFound:
		return http.StatusNotFound
	case kindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, kind, message string) {
	c.JSON(statusFor(kind), gin.H{
		"success": false,
		"error":   gin.H{"kind": kind, "message": message},
	})
}

// failUnexpected hides the underlying error from the client and logs it.
func failUnexpected(c *gin.Context, action string, err error) {
	logrus.WithError(err).Errorf("%s: unexpected error", action)
	fail(c, kindInternal, "An unexpected error occurred")
}

func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
