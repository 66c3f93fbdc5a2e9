package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrEmailExists         = errors.New("user with this email already exists")
	ErrUsernameExists      = errors.New("user with this username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrValidation          = errors.New("validation error")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")
	ErrInternal            = errors.New("internal error")
)
