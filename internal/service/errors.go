package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP codes;
// anything else surfaces as a 500.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("validation failed")
	ErrStateConflict     = errors.New("operation not allowed in current state")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDuplicate         = errors.New("resource already exists")
)
