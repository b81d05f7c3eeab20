package wisp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.NotNil(t, cfg.ErrorHandler)
	assert.Nil(t, cfg.AcceptRateLimit)
	assert.False(t, cfg.DisableStartupMessage)
}

func TestDefaultErrorHandlerPlainError(t *testing.T) {
	cfg := DefaultConfig()
	rsp := NewResponse(nil)
	cfg.ErrorHandler(assertError("boom"), rsp)
	assert.Equal(t, StatusInternalServerError, rsp.code)
	assert.Equal(t, "boom", rsp.staticBody)
}

func TestDefaultErrorHandlerHttpError(t *testing.T) {
	cfg := DefaultConfig()
	rsp := NewResponse(nil)
	cfg.ErrorHandler(NewHttpError(StatusTeapot, "short and stout"), rsp)
	assert.Equal(t, StatusTeapot, rsp.code)
	assert.Equal(t, "short and stout", rsp.staticBody)
}

type assertError string

func (e assertError) Error() string { return string(e) }
