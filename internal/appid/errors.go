package appid

import "errors"

var (
	// ErrInvalidIdentifier indicates a value that is not a positive decimal
	// App ID, or that no source produced one.
	ErrInvalidIdentifier = errors.New("invalid app id")

	// ErrCancelled indicates the operator dismissed the interactive prompt.
	ErrCancelled = errors.New("app id prompt cancelled")
)
