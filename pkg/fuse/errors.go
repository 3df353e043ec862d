package fuse

import (
	"errors"
	"fmt"
)

// ErrInvalidWeight indicates a key weight outside (0, 1].
var ErrInvalidWeight = errors.New("key weight has to be > 0 and <= 1")

// WeightError reports the key that carried an invalid weight.
type WeightError struct {
	// Key is the offending key name.
	Key string
	// Weight is the rejected weight.
	Weight float64
}

// Error implements the error interface.
func (e *WeightError) Error() string {
	return fmt.Sprintf("key %q: weight %v: %s", e.Key, e.Weight, ErrInvalidWeight.Error())
}

// Is implements error matching for WeightError.
func (e *WeightError) Is(target error) bool {
	return target == ErrInvalidWeight
}

// ErrInvalidOption indicates a numeric option outside its valid range.
var ErrInvalidOption = errors.New("option out of range")

// OptionError reports the option that carried an invalid value.
type OptionError struct {
	// Option is the offending option name.
	Option string
	// Value is the rejected value.
	Value int
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %d: %s, must be >= 0", e.Option, e.Value, ErrInvalidOption.Error())
}

// Is implements error matching for OptionError.
func (e *OptionError) Is(target error) bool {
	return target == ErrInvalidOption
}
