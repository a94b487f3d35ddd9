package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	got := Categories()
	assert.Len(t, got, 11)
	assert.Equal(t, "Technology", got[0])
	assert.Equal(t, "Other", got[len(got)-1])

	// Mutating the copy must not leak into the enumeration.
	got[0] = "Hacked"
	assert.Equal(t, "Technology", Categories()[0])
}

func TestIsCategory(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Food & Cooking", true},
		{"Health & Medical", true},
		{"Other", true},
		{"technology", false},
		{"All", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCategory(tt.name))
		})
	}
}

func TestPostOwnedBy(t *testing.T) {
	p := &Post{ID: 1, AuthorID: 42}
	assert.True(t, p.OwnedBy(42))
	assert.False(t, p.OwnedBy(7))
}
