package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInputFormat     = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUpload          = errors.New("image upload failed")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("action forbidden")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrListingNotFound   = fmt.Errorf("listing %w", ErrNotFound)
	ErrFavoriteNotFound  = fmt.Errorf("favorite %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrDuplicateFavorite = fmt.Errorf("%w: favorite already exists", ErrConflict)
	ErrDuplicateEmail    = fmt.Errorf("%w: email already registered", ErrConflict)
)

// InputError wraps ErrInputFormat with a caller-facing message.
func InputError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInputFormat, fmt.Sprintf(format, args...))
}

// ValidationError wraps ErrValidation with a caller-facing message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
