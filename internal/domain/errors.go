package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Conflicts. All of these match ErrConflict with errors.Is.
var (
	ErrUsernameTaken     = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrEmailTaken        = fmt.Errorf("%w: email is already in use", ErrConflict)
	ErrDuplicateCategory = fmt.Errorf("%w: category with this name already exists", ErrConflict)
	ErrCategoryInUse     = fmt.Errorf("%w: category is referenced by transactions", ErrConflict)
)

// Token verification failures. All of these match ErrUnauthenticated.
var (
	ErrTokenMalformed        = fmt.Errorf("%w: malformed token", ErrUnauthenticated)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenInvalidSignature = fmt.Errorf("%w: invalid token signature", ErrUnauthenticated)
)
