package service

import "errors"

var (
	ErrDuplicate       = errors.New("a property of this type already exists")
	ErrNotFound        = errors.New("property not found")
	ErrUserExists      = errors.New("username already taken")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotLoggedIn     = errors.New("no user is logged in")
)
