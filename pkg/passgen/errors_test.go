package passgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrInvalidLength, CodeInvalidLength},
		{fmt.Errorf("%w: -1", ErrInvalidLength), CodeInvalidLength},
		{ErrLengthTooHigh, CodeLengthTooHigh},
		{ErrLengthTooShort, CodeLengthTooShort},
		{ErrNoClassSelected, CodeNoClassSelected},
		{fmt.Errorf("wrapped: %w", ErrTooManyIterations), CodeTooManyIterations},
		{errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), "%v", tt.err)
	}
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, NewRequest(4, AllClasses[:]...).Validate())
	assert.ErrorIs(t, NewRequest(3, AllClasses[:]...).Validate(), ErrLengthTooShort)
	assert.ErrorIs(t, Request{Length: 5}.Validate(), ErrNoClassSelected)
	assert.ErrorIs(t, Request{}.Validate(), ErrInvalidLength)
	assert.ErrorContains(t, NewRequest(2000, Digit).Validate(), "2000 exceeds 1000")
}
