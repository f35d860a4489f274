package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the root of every input validation failure
	ErrInvalidInput = errors.New("invalid product input")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrTooManyRecords is returned when a request carries more records than allowed
	ErrTooManyRecords = errors.New("too many product records")
)

// ShapeError reports that the input is not a sequence of product records
type ShapeError struct {
	Got string
}

func (e *ShapeError) Error() string {
	if e.Got == "" {
		return "input must be an array of products"
	}
	return fmt.Sprintf("input must be an array of products, got %s", e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidInput }

// FieldError reports a record that lacks a non-empty text field
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("product at index %d has no valid %q", e.Index, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }
