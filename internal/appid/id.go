package appid

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a Steam App ID. The zero value means unresolved.
type ID uint32

// Valid reports whether id can be used to start a session.
func (id ID) Valid() bool {
	return id > 0
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Parse converts s into an ID, ignoring surrounding whitespace.
func Parse(s string) (ID, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: value is empty", ErrInvalidIdentifier)
	}
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a 32-bit unsigned integer", ErrInvalidIdentifier, trimmed)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: must be greater than 0", ErrInvalidIdentifier)
	}
	return ID(n), nil
}

// ParseOrZero is Parse for best-effort sources: any failure yields 0.
func ParseOrZero(s string) ID {
	id, err := Parse(s)
	if err != nil {
		return 0
	}
	return id
}
