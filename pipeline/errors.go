package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty or malformed intensity grids.
	ErrInvalidInput = errors.New("invalid input grid")
	// ErrShapeMismatch is returned when the compositor gets channels of different sizes.
	ErrShapeMismatch = errors.New("channel shapes differ")
	// ErrInvalidParameter is returned for a gain that is not a positive finite number.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ShapeError reports the three shapes handed to Compose. It matches
// ErrShapeMismatch with errors.Is.
type ShapeError struct {
	Red, Green, Blue Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: red %v, green %v, blue %v", ErrShapeMismatch, e.Red, e.Green, e.Blue)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShapeMismatch }
