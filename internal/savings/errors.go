package savings

import "errors"

var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidDeposit = errors.New("invalid deposit")
)
