package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIDCarriesPrefix(t *testing.T) {
	id := NewID("booking")
	assert.True(t, strings.HasPrefix(id, "booking_"))
	// uuid without dashes is 32 hex chars
	assert.Len(t, id, len("booking_")+32)
	assert.NotContains(t, id[len("booking_"):], "-")
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID("class")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDPrefix(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"class_abc123", "class"},
		{"event_ffff", "event"},
		{"booking_1", "booking"},
		{"noprefix", ""},
		{"_leading", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IDPrefix(tc.id), "id %q", tc.id)
	}
}
