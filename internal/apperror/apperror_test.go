package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Post", "7"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "InvalidArgument wraps ErrInvalidArgument",
			err:       InvalidArgument("title", "Title and content are required"),
			target:    ErrInvalidArgument,
			wantMatch: true,
		},
		{
			name:      "AlreadyExists wraps ErrAlreadyExists",
			err:       AlreadyExists("email", "Email already registered"),
			target:    ErrAlreadyExists,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("Unauthorized"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("You can only edit your own posts"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "NotFound does not match ErrForbidden",
			err:       NotFound("Post", "7"),
			target:    ErrForbidden,
			wantMatch: false,
		},
		{
			name:      "wrapped with fmt.Errorf still matches",
			err:       fmt.Errorf("updating post: %w", Forbidden("nope")),
			target:    ErrForbidden,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Post not found", NotFound("Post", "7").Error())
	assert.Equal(t, "Username already taken", AlreadyExists("username", "Username already taken").Error())
}

func TestFieldIsRecorded(t *testing.T) {
	err := InvalidArgument("category", "Valid category is required")
	assert.Equal(t, "category", err.Field)
	assert.Equal(t, ErrInvalidArgument, err.Unwrap())
}
