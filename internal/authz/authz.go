package authz

import "errors"

// Session is the authenticated caller attached to a request. It is
// resolved once by the auth middleware and passed explicitly to every
// handler that needs it.
type Session struct {
	UserID string
}

// ErrNotOwner is returned when the session user does not own the
// resource being mutated.
var ErrNotOwner = errors.New("not resource owner")

// Authorize is the single ownership check used by every mutating
// handler: the session must belong to the user that owns the resource.
func Authorize(sess *Session, ownerID string) error {
	if sess == nil || sess.UserID == "" {
		return ErrNotOwner
	}
	if sess.UserID != ownerID {
		return ErrNotOwner
	}
	return nil
}
