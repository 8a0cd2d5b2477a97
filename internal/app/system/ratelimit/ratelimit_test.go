package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsBurstThenBlocks(t *testing.T) {
	l := ratelimit.New(3, time.Hour)
	defer l.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("k"), "attempt %d should pass", i+1)
	}
	assert.False(t, l.Allow("k"))
	assert.True(t, l.Allow("other"), "keys are independent")
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	defer l.Close()

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	l.Reset("k")
	assert.True(t, l.Allow("k"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:4000"
	assert.Equal(t, "10.0.0.5", ratelimit.ClientIP(req))

	req.Header.Set("X-Real-IP", "192.168.1.100")
	assert.Equal(t, "192.168.1.100", ratelimit.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18")
	assert.Equal(t, "203.0.113.195", ratelimit.ClientIP(req))
}

func TestLoginLimiter_PerAccount(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(2, time.Hour)
	defer ll.Close()

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.5:4000"

	ok, _ := ll.Check(req, "ada@example.com")
	assert.True(t, ok)
	ok, _ = ll.Check(req, "ADA@example.com ")
	assert.True(t, ok)
	ok, reason := ll.Check(req, "ada@example.com")
	assert.False(t, ok)
	assert.Contains(t, reason, "this account")

	ll.ResetAccount("ada@example.com")
	ok, _ = ll.Check(req, "ada@example.com")
	assert.True(t, ok)
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := ratelimit.NewLoginLimiter(1, time.Hour)
	defer ll.Close()

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.9:4000"

	// IP allows 2, each account 1.
	ok, _ := ll.Check(req, "a@example.com")
	assert.True(t, ok)
	ok, _ = ll.Check(req, "b@example.com")
	assert.True(t, ok)
	ok, reason := ll.Check(req, "c@example.com")
	assert.False(t, ok)
	assert.Contains(t, reason, "wait a minute")
}
