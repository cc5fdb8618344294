package model

import "errors"

// Sentinel kinds for input validation errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
)
