package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	owner := &Session{UserID: "user-1"}

	assert.NoError(t, Authorize(owner, "user-1"))
	assert.ErrorIs(t, Authorize(owner, "user-2"), ErrNotOwner)
	assert.ErrorIs(t, Authorize(nil, "user-1"), ErrNotOwner)
	assert.ErrorIs(t, Authorize(&Session{}, ""), ErrNotOwner)
}
