package objectid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		id := New()
		assert.Len(t, id, Len)
		assert.True(t, IsValid(id))
		_, dup := seen[id]
		assert.False(t, dup, "identifiers must not repeat")
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "valid hex id", id: "507f1f77bcf86cd799439011", want: true},
		{name: "empty", id: "", want: false},
		{name: "too short", id: "507f1f77bcf86cd7994390", want: false},
		{name: "too long", id: "507f1f77bcf86cd79943901122", want: false},
		{name: "non-hex characters", id: "507f1f77bcf86cd79943901z", want: false},
		{name: "right length but spaces", id: "507f1f77bcf86cd79943901 ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.id))
		})
	}
}
