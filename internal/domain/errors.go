package domain

import "errors"

var (
	ErrMissingUserID = errors.New("missing user_id")
	ErrInvalidUserID = errors.New("invalid user_id")
)
