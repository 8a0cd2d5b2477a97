package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", Email("  Asha@Example.COM "))
	assert.Equal(t, "", Email("   "))
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"Asha   Kamau":       "Asha Kamau",
		"  Grace\tHopper \n": "Grace Hopper",
		"McDonald":           "McDonald",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Name(in), "Name(%q)", in)
	}
}

func TestLowercasers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"auth method", AuthMethod, " Google ", "google"},
		{"status", Status, "DISABLED", "disabled"},
		{"role admin", Role, " Admin", "admin"},
		{"role worker", Role, "WORKER\t", "worker"},
		{"role empty", Role, "  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestQueryParam(t *testing.T) {
	assert.Equal(t, "Bridge Repair", QueryParam("  Bridge Repair "))
	assert.Equal(t, "", QueryParam(""))
}
