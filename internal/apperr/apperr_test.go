package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsAreDistinguishable(t *testing.T) {
	assert.True(t, errors.Is(Validation("bad input"), ErrValidation))
	assert.True(t, errors.Is(Auth("no session"), ErrAuth))
	assert.True(t, errors.Is(Forbidden("not yours"), ErrForbidden))
	assert.True(t, errors.Is(NotFound("gone"), ErrNotFound))
	assert.True(t, errors.Is(Conflict("taken"), ErrConflict))
	assert.True(t, errors.Is(Expired("too late"), ErrExpired))

	assert.False(t, errors.Is(Validation("bad input"), ErrAuth))
}

func TestMessageStripsKindPrefix(t *testing.T) {
	assert.Equal(t, "email already registered", Message(Conflict("email already registered")))
	assert.Equal(t, "url is required", Message(Validation("url is required")))
}

func TestMessagePassesThroughUnknownErrors(t *testing.T) {
	assert.Equal(t, "store is down", Message(fmt.Errorf("store is down")))
}
