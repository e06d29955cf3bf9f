package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")

	// Task related errors
	ErrTaskNotFound = errors.New("task not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Transport and response classification used by the API client
	ErrNetwork  = errors.New("network error")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrServer   = errors.New("server error")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
