package timeouts_test

import (
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/stretchr/testify/assert"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	assert.Equal(t, 7*time.Second, timeouts.Short())
	assert.Equal(t, timeouts.DefaultMedium, timeouts.Medium())
	assert.Equal(t, timeouts.DefaultUpload, timeouts.Upload())
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute})
	timeouts.Reset()
	assert.Equal(t, timeouts.DefaultPing, timeouts.Ping())
}
