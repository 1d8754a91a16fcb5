package application

import (
	"errors"
	"fmt"
)

// Account errors
var (
	ErrUserExists          = errors.New("user already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotConfirmed = errors.New("account not confirmed")
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// Listing errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotOwner         = errors.New("property belongs to another user")
	ErrAlreadyPublished = errors.New("property already published")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownPrice     = errors.New("unknown price")
	ErrCategoryNotFound = errors.New("category not found")
)

// Messaging errors
var (
	ErrLoginRequired   = errors.New("login required")
	ErrOwnProperty     = errors.New("cannot message your own property")
	ErrMessageTooShort = errors.New("message is empty or too short")
	ErrMessageTooLong  = errors.New("message is too long")
)

// FieldTooLongError reports an input wider than its column.
type FieldTooLongError struct {
	Field string
	Max   int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s is longer than %d characters", e.Field, e.Max)
}

// Column widths
const (
	maxNameLen    = 60
	maxEmailLen   = 120
	maxTitleLen   = 100
	maxStreetLen  = 60
	maxCoordLen   = 30
	maxMessageLen = 200
)

type lengthRule struct {
	field string
	value string
	max   int
}

func checkLengths(rules ...lengthRule) error {
	for _, r := range rules {
		if len([]rune(r.value)) > r.max {
			return &FieldTooLongError{Field: r.field, Max: r.max}
		}
	}
	return nil
}
