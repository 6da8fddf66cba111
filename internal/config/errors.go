package config

import "errors"

// ErrInvalidPollInterval is returned by Load and Config.Override when the
// layered settings end up with a zero or negative poll interval.
var ErrInvalidPollInterval = errors.New("invalid poll interval")
