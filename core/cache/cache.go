package cache

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	// MaxLen is the maximum length of a key or a value, in Unicode code points.
	MaxLen = 256

	// DefaultCapacity is used when no capacity is configured.
	DefaultCapacity = 10_000
)

const validationDetail = "Key or value exceeds 256 characters"

var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidCapacity = errors.New("capacity must not be negative")
)

// ValidationError reports an oversized key or value. It matches ErrValidation.
type ValidationError struct {
	Field  string // "key" or "value"
	Length int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s has %d characters (max %d)", validationDetail, e.Field, e.Length, MaxLen)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Detail is the client facing message, independent of which field failed.
func (e *ValidationError) Detail() string { return validationDetail }

// Store is a bounded key-value store. Implementations are safe for
// concurrent use.
type Store interface {
	Put(key, value string) error
	Get(key string) (string, bool)
	Len() int
	Capacity() int
}

// Validate checks key and value against MaxLen.
func Validate(key, value string) error {
	if n := utf8.RuneCountInString(key); n > MaxLen {
		return &ValidationError{Field: "key", Length: n}
	}
	if n := utf8.RuneCountInString(value); n > MaxLen {
		return &ValidationError{Field: "value", Length: n}
	}
	return nil
}
