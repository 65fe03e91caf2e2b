package reveal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors matching the error kinds reported by the widget.
// Use errors.Is to test for a kind.
var (
	ErrConfig       = errors.New("invalid configuration")
	ErrLoad         = errors.New("image could not be loaded")
	ErrNotFound     = errors.New("region not found")
	ErrInvalidState = errors.New("invalid widget state")
)

// ConfigError reports a missing or invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrConfig, e.Field, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// LoadError reports a failure to load or decode an image source.
type LoadError struct {
	Src string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrLoad, e.Src, e.Err)
}

// Unwrap returns the underlying loader error.
func (e *LoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoad.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// NotFoundError reports an unknown region identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNotFound, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
