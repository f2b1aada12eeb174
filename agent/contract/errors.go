package contract

import "errors"

var (
	ErrModelInvoke = errors.New("model invoke failed")
	ErrToolArgs    = errors.New("tool arguments are invalid")
	ErrValidation  = errors.New("validation failed")
)
