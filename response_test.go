package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisphttp/wisp/internal/bufpool"
)

func TestResponseDefaults(t *testing.T) {
	pool := bufpool.New()
	rsp := NewResponse(pool.Acquire())
	assert.Equal(t, StatusOK, rsp.code)
	assert.Equal(t, "Ok", rsp.reason)
	assert.Equal(t, 0, rsp.bodyLen())
}

func TestResponseBodyString(t *testing.T) {
	pool := bufpool.New()
	rsp := NewResponse(pool.Acquire())
	rsp.BodyString("Hello, world!")
	assert.Equal(t, 13, rsp.bodyLen())
	assert.Equal(t, "Hello, world!", string(rsp.bodyBytes()))
}

func TestResponseBodyBuf(t *testing.T) {
	pool := bufpool.New()
	rsp := NewResponse(pool.Acquire())
	rsp.BodyBuf().Append([]byte(`{"message":"Hello, World!"}`))
	assert.Equal(t, 27, rsp.bodyLen())
}

func TestResponseHeaderOverflowPanics(t *testing.T) {
	pool := bufpool.New()
	rsp := NewResponse(pool.Acquire())
	for i := 0; i < 16; i++ {
		rsp.HeaderKV("X-N", "v")
	}
	assert.Panics(t, func() {
		rsp.HeaderKV("X-Overflow", "v")
	})
}

func TestResponseReset(t *testing.T) {
	pool := bufpool.New()
	rsp := NewResponse(pool.Acquire())
	rsp.StatusCode(StatusNotFound, "Not Found")
	rsp.HeaderKV("Content-Type", "text/plain")
	rsp.BodyString("nope")

	rsp.Reset()

	assert.Equal(t, StatusOK, rsp.code)
	assert.Equal(t, "Ok", rsp.reason)
	assert.Equal(t, 0, rsp.numHeaders)
	assert.Equal(t, 0, rsp.bodyLen())
	require.Equal(t, bodyEmpty, rsp.kind)
}
