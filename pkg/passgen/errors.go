package passgen

import (
	"errors"
)

var (
	// ErrInvalidLength is returned when the length is not a positive integer.
	ErrInvalidLength = errors.New("invalid length value")
	// ErrLengthTooHigh is returned when the length exceeds MaxLength.
	ErrLengthTooHigh = errors.New("length too high")
	// ErrLengthTooShort is returned when the length cannot fit one character
	// of every required class.
	ErrLengthTooShort = errors.New("password length too short")
	// ErrNoClassSelected is returned when no character class is enabled.
	ErrNoClassSelected = errors.New("no character class selected")
	// ErrTooManyIterations is returned when no candidate satisfied the
	// composition constraints within the attempt budget.
	ErrTooManyIterations = errors.New("too many iterations")
)

// Error codes returned by Code.
const (
	CodeInvalidLength     = "invalid_length"
	CodeLengthTooHigh     = "length_too_high"
	CodeLengthTooShort    = "length_too_short"
	CodeNoClassSelected   = "no_class_selected"
	CodeTooManyIterations = "too_many_iterations"
	CodeInternal          = "internal"
)

// Code maps an error returned by Generate to a stable identifier suitable for
// API responses and metric labels. It returns "" for a nil error.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLength):
		return CodeInvalidLength
	case errors.Is(err, ErrLengthTooHigh):
		return CodeLengthTooHigh
	case errors.Is(err, ErrLengthTooShort):
		return CodeLengthTooShort
	case errors.Is(err, ErrNoClassSelected):
		return CodeNoClassSelected
	case errors.Is(err, ErrTooManyIterations):
		return CodeTooManyIterations
	default:
		return CodeInternal
	}
}

// IsRequestError reports whether err was caused by an invalid request rather
// than by exhaustion or a failing random source.
func IsRequestError(err error) bool {
	switch Code(err) {
	case CodeInvalidLength, CodeLengthTooHigh, CodeLengthTooShort, CodeNoClassSelected:
		return true
	}
	return false
}
