package split

import "errors"

// ErrInvalidInput is returned for missing or malformed assignment input.
var ErrInvalidInput = errors.New("invalid request data")
