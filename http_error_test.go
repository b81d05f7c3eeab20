package wisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHttpErrorMessage(t *testing.T) {
	e := NewHttpError(StatusNotFound, "not found")
	assert.Equal(t, "not found", e.Error())
}

func TestHttpErrorWithWrappedCause(t *testing.T) {
	cause := errors.New("underlying")
	e := NewHttpErrorWithError(StatusInternalServerError, "failed", cause)
	assert.Equal(t, "failed: underlying", e.Error())
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, cause, errors.Unwrap(e))
}

func TestHttpErrorAsTarget(t *testing.T) {
	var target *HttpError
	var err error = NewHttpError(StatusTeapot, "teapot")
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, StatusTeapot, target.Code)
}
