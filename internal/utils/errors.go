package utils

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrContentRequired    = errors.New("content is required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInternal           = errors.New("internal error")
)
