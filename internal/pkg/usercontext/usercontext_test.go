package usercontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeSegment(t *testing.T) {
	user := UserContext{
		UserID:     42,
		Username:   "alice",
		IsLoggedIn: true,
		Attributes: map[string]string{"tenant": "acme"},
	}

	tests := []struct {
		name      string
		user      UserContext
		attribute string
		expected  string
	}{
		{"empty attribute disables scoping", user, "", ""},
		{"by id", user, "id", "42"},
		{"by username", user, "username", "alice"},
		{"custom attribute", user, "tenant", "acme"},
		{"missing attribute falls back to username", user, "department", "alice"},
		{"zero id falls back to username", UserContext{Username: "bob"}, "id", "bob"},
		{"anonymous yields nothing", UserContext{}, "id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.ScopeSegment(tt.attribute))
		})
	}
}
