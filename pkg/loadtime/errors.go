package loadtime

import (
	"errors"
	"fmt"
)

var (
	// ErrDataAlreadySet is reported when SetData runs on a populated store.
	ErrDataAlreadySet = errors.New("loadtime: re-setting data")
	// ErrNoData is reported when values are read before SetData.
	ErrNoData = errors.New("loadtime: no data; did you remember to load the strings?")
	// ErrInvalidReplacements is reported when OverrideValues receives
	// something other than a mapping.
	ErrInvalidReplacements = errors.New("loadtime: replacements must be a dictionary object")
	// ErrUnescapedDollar is reported for `$` not followed by `$` or 1-9.
	ErrUnescapedDollar = errors.New("loadtime: unescaped $ found in localized string")
	// ErrMissingSanitizer is returned by SanitizeMarkup when the store has no
	// sanitizer configured.
	ErrMissingSanitizer = errors.New("loadtime: sanitizer is not configured")
)

// MissingValueError names a key that was read but not present.
type MissingValueError struct {
	Key string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("loadtime: could not find value for %s", e.Key)
}

// TypeError describes a tag mismatch between the requested and stored kind.
type TypeError struct {
	Key  string
	Want Kind
	Got  Kind
	// Value holds the stored value's string form when known.
	Value string
}

func (e *TypeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("loadtime: value is a %s, not a %s", e.Got, e.Want)
	}
	return fmt.Sprintf("loadtime: [%s] (%s) is not a %s", e.Value, e.Key, e.Want)
}

// NotIntegerError is reported when an integer read finds a fractional number.
type NotIntegerError struct {
	Key   string
	Value float64
}

func (e *NotIntegerError) Error() string {
	return fmt.Sprintf("loadtime: number isn't integer: %s", formatNumber(e.Value))
}

// MissingArgumentError is reported when a placeholder refers past the
// supplied arguments.
type MissingArgumentError struct {
	Placeholder int
	Supplied    int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("loadtime: placeholder $%d has no argument (%d supplied)", e.Placeholder, e.Supplied)
}
