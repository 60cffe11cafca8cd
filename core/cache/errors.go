package cache

import "errors"

// Package-level error definitions for cache construction and janitor lifecycle.
var (
	ErrInvalidConfig     = errors.New("invalid cache configuration")
	ErrInvalidMaxSize    = errors.New("max size must be greater than zero")
	ErrAlreadyStarted    = errors.New("janitor already started")
	ErrNotStarted        = errors.New("janitor not started")
	ErrJanitorNotRunning = errors.New("cleanup is configured but not running")
	ErrShutdownTimeout   = errors.New("janitor shutdown timeout exceeded")
)
